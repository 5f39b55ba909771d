package regime

import (
	"context"
	"time"

	"OptEdge/internal/domain/models"
	domrepo "OptEdge/internal/domain/repository"
	domsvc "OptEdge/internal/domain/service"
	"OptEdge/internal/services/features"
	"OptEdge/pkg/logger"
)

// Config holds the classifier windows and fallbacks.
type Config struct {
	Benchmark         string
	ReturnWindow      int
	VolWindow         int
	VIXFallbackWindow int
	DefaultVIX        float64
	DefaultVol        float64
}

// DefaultConfig mirrors the config file defaults.
func DefaultConfig() Config {
	return Config{
		Benchmark:         "SPY",
		ReturnWindow:      10,
		VolWindow:         20,
		VIXFallbackWindow: 10,
		DefaultVIX:        20,
		DefaultVol:        0.20,
	}
}

const (
	minEstimatedVIX = 12.0
	maxEstimatedVIX = 40.0
)

// Classifier detects the market regime once per run.
type Classifier struct {
	cfg    Config
	data   domrepo.MarketData
	series domsvc.SeriesSource
	now    func() time.Time
	log    *logger.Logger
}

type Option func(*Classifier)

func WithClock(now func() time.Time) Option { return func(c *Classifier) { c.now = now } }

func WithLogger(l *logger.Logger) Option { return func(c *Classifier) { c.log = l } }

// NewClassifier reads the volatility index from data and benchmark closes from series.
func NewClassifier(cfg Config, data domrepo.MarketData, series domsvc.SeriesSource, opts ...Option) *Classifier {
	c := &Classifier{cfg: cfg, data: data, series: series, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Detect never fails. Each input that cannot be fetched falls back independently.
func (c *Classifier) Detect(ctx context.Context) models.MarketRegime {
	r := models.MarketRegime{
		VolatilityIndex:     c.cfg.DefaultVIX,
		BenchmarkVolatility: c.cfg.DefaultVol,
		VIXSource:           models.VIXDefaultSource,
		Timestamp:           c.now(),
	}

	var returns []float64
	closes, err := c.series.Closes(ctx, c.cfg.Benchmark)
	if err != nil {
		c.log.Warn("benchmark history unavailable", logger.String("benchmark", c.cfg.Benchmark), logger.Error(err))
	} else {
		returns = features.Returns(closes)
		if ret, ok := features.PeriodReturn(closes, c.cfg.ReturnWindow); ok {
			r.BenchmarkReturn = ret
		}
		if vol, ok := features.RealizedVolatility(returns, c.cfg.VolWindow, features.TradingDaysPerYear); ok {
			r.BenchmarkVolatility = vol
		}
	}

	level, err := c.data.VolatilityIndexLevel(ctx)
	switch {
	case err == nil && level > 0:
		r.VolatilityIndex = level
		r.VIXSource = models.VIXFromIndex
	default:
		if est, ok := EstimateVIX(returns, c.cfg.VIXFallbackWindow); ok {
			r.VolatilityIndex = est
			r.VIXSource = models.VIXEstimated
		}
		c.log.Debug("volatility index fallback",
			logger.String("source", string(r.VIXSource)),
			logger.Float("level", r.VolatilityIndex),
			logger.Error(err))
	}

	r.Label = Classify(r.VolatilityIndex, r.BenchmarkReturn, r.BenchmarkVolatility)
	c.log.Info("market regime",
		logger.String("label", string(r.Label)),
		logger.Float("vix", r.VolatilityIndex),
		logger.Float("return", r.BenchmarkReturn),
		logger.Float("volatility", r.BenchmarkVolatility))
	return r
}

// EstimateVIX approximates the index from short-window annualized realized volatility, in points.
func EstimateVIX(returns []float64, window int) (float64, bool) {
	vol, ok := features.RealizedVolatility(returns, window, features.TradingDaysPerYear)
	if !ok {
		return 0, false
	}
	return features.Clamp(vol*100, minEstimatedVIX, maxEstimatedVIX), true
}

// Classify applies the regime decision table. Branches are evaluated in order.
func Classify(vix, benchReturn, benchVol float64) models.RegimeLabel {
	switch {
	case vix > 30:
		if benchVol > 0.25 {
			return models.RegimeVolatile
		}
		return models.RegimeBear
	case vix > 25:
		if benchReturn > -0.02 {
			return models.RegimeVolatile
		}
		return models.RegimeBear
	case vix < 15:
		if benchReturn > -0.02 {
			return models.RegimeBull
		}
		return models.RegimeSideways
	case vix < 20:
		switch {
		case benchReturn > 0.03:
			return models.RegimeBull
		case benchReturn < -0.03:
			return models.RegimeBear
		default:
			return models.RegimeSideways
		}
	default:
		switch {
		case benchReturn > 0.02:
			return models.RegimeNeutralBull
		case benchReturn < -0.02:
			return models.RegimeNeutralBear
		default:
			return models.RegimeNeutral
		}
	}
}

var _ domsvc.RegimeClassifier = (*Classifier)(nil)
