package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	candidates  *prometheus.CounterVec
	skips       *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	regime      *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New registers the scan metrics on the default registry.
func New() *Recorder { return NewWithRegistry(prometheus.DefaultRegisterer) }

// NewWithRegistry registers the scan metrics on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		candidates: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optedge_candidates_total",
				Help: "Scored option candidates produced per instrument",
			},
			[]string{"ticker"},
		),
		skips: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optedge_instrument_skips_total",
				Help: "Instruments skipped during a scan, by reason",
			},
			[]string{"reason"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optedge_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		regime: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "optedge_market_regime",
				Help: "1 for the regime label of the latest scan, 0 otherwise",
			},
			[]string{"label"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "optedge_stage_duration_seconds",
				Help:    "Duration of scan stages in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"stage"},
		),
	}
}

func (r *Recorder) RecordCandidates(ticker string, n int) {
	r.candidates.WithLabelValues(ticker).Add(float64(n))
}

func (r *Recorder) RecordSkip(reason string) {
	r.skips.WithLabelValues(reason).Inc()
}

// RecordRegime sets label to 1 and resets every other label seen so far.
func (r *Recorder) RecordRegime(label string) {
	r.regime.Reset()
	r.regime.WithLabelValues(label).Set(1)
}

func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
