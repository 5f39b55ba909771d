package pattern

import (
	"fmt"
	"math"
	"sort"

	"OptEdge/internal/domain/models"
	domsvc "OptEdge/internal/domain/service"
	"OptEdge/internal/services/features"
)

// FeatureSet selects which snapshot components enter the distance.
type FeatureSet int

const (
	// FullFeatures uses both MA spreads, RSI and the MACD difference.
	FullFeatures FeatureSet = iota
	// BasicFeatures uses the 5/20 MA spread and RSI only.
	BasicFeatures
)

const sharpeEpsilon = 1e-8

// Config controls the analog search.
type Config struct {
	Neighbors      int
	ReservedWindow int
	Horizons       []int
	Features       FeatureSet
}

// DefaultConfig is the full variant configuration.
func DefaultConfig() Config {
	return Config{Neighbors: 40, ReservedWindow: 20, Horizons: []int{3, 5, 10, 15}, Features: FullFeatures}
}

// BasicConfig is the simplified variant: fewer features, fewer neighbors, no reserved window.
func BasicConfig() Config {
	return Config{Neighbors: 20, ReservedWindow: 0, Horizons: []int{3, 5, 10, 15}, Features: BasicFeatures}
}

// Matcher is a k-nearest-neighbor analog search over technical snapshots.
type Matcher struct {
	cfg Config
}

func NewMatcher(cfg Config) *Matcher {
	hs := append([]int(nil), cfg.Horizons...)
	sort.Ints(hs)
	cfg.Horizons = hs
	if cfg.Neighbors < 1 {
		cfg.Neighbors = 1
	}
	if cfg.ReservedWindow < 0 {
		cfg.ReservedWindow = 0
	}
	return &Matcher{cfg: cfg}
}

// Horizons returns the configured horizons in ascending order.
func (m *Matcher) Horizons() []int { return m.cfg.Horizons }

// Analogs returns up to Neighbors historical points closest to the latest one,
// ordered by ascending distance. Points inside the reserved trailing window are never candidates.
func (m *Matcher) Analogs(points []models.PricePoint) ([]models.PatternMatch, error) {
	ind, err := features.ComputeIndicators(models.Closes(points))
	if err != nil {
		return nil, err
	}
	n := ind.Len()
	current := ind.Snapshot(n - 1)

	// basic variant still excludes the current point itself
	limit := n - max(m.cfg.ReservedWindow, 1)
	if limit <= features.Warmup {
		return nil, fmt.Errorf("analogs: no points outside reserved window: %w", models.ErrInsufficientHistory)
	}

	pool := make([]models.PatternMatch, 0, limit-features.Warmup)
	for i := features.Warmup; i < limit; i++ {
		s := ind.Snapshot(i)
		d := m.distance(current, s)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		pool = append(pool, models.PatternMatch{Snapshot: s, Distance: d, Index: i, Timestamp: points[i].Date})
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("analogs: %w", models.ErrDegenerateStatistics)
	}
	sort.SliceStable(pool, func(a, b int) bool { return pool[a].Distance < pool[b].Distance })
	if len(pool) > m.cfg.Neighbors {
		pool = pool[:m.cfg.Neighbors]
	}
	return pool, nil
}

// Match aggregates the forward returns of the analogs per horizon.
// Horizons without samples are omitted; if every horizon is empty the instrument has no usable history.
func (m *Matcher) Match(points []models.PricePoint) (models.Outcomes, error) {
	analogs, err := m.Analogs(points)
	if err != nil {
		return nil, fmt.Errorf("pattern match: %w", err)
	}
	out := Aggregate(models.Closes(points), analogs, m.cfg.Horizons)
	if len(out) == 0 {
		return nil, fmt.Errorf("pattern match: no forward data: %w", models.ErrInsufficientHistory)
	}
	return out, nil
}

// Aggregate computes one TimeframeOutcome per horizon that has at least one analog with future data.
func Aggregate(closes []float64, analogs []models.PatternMatch, horizons []int) models.Outcomes {
	out := make(models.Outcomes, 0, len(horizons))
	for _, h := range horizons {
		rets := make([]float64, 0, len(analogs))
		for _, a := range analogs {
			j := a.Index + h
			if j >= len(closes) || closes[a.Index] <= 0 {
				continue
			}
			rets = append(rets, closes[j]/closes[a.Index]-1)
		}
		if len(rets) == 0 {
			continue
		}
		out = append(out, outcome(h, rets))
	}
	return out
}

func outcome(h int, rets []float64) models.TimeframeOutcome {
	mean, std := features.MeanStd(rets)
	wins := 0
	lo, hi := rets[0], rets[0]
	for _, r := range rets {
		if r > 0 {
			wins++
		}
		lo = math.Min(lo, r)
		hi = math.Max(hi, r)
	}
	return models.TimeframeOutcome{
		HorizonDays: h,
		Samples:     len(rets),
		MeanReturn:  mean,
		WinRate:     float64(wins) / float64(len(rets)),
		Volatility:  std,
		SharpeLike:  mean / (std + sharpeEpsilon),
		MaxReturn:   hi,
		MinReturn:   lo,
	}
}

func (m *Matcher) distance(a, b models.TechnicalSnapshot) float64 {
	d1 := a.MASpread5_20 - b.MASpread5_20
	d3 := a.RSI - b.RSI
	switch m.cfg.Features {
	case BasicFeatures:
		return math.Sqrt(d1*d1 + d3*d3)
	default:
		d2 := a.MASpread10_20 - b.MASpread10_20
		d4 := a.MACDSignalDiff - b.MACDSignalDiff
		return math.Sqrt(d1*d1 + d2*d2 + d3*d3 + d4*d4)
	}
}

var _ domsvc.PatternMatcher = (*Matcher)(nil)
