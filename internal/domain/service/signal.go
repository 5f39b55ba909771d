package service

import (
	"context"

	"OptEdge/internal/domain/models"
)

// RegimeClassifier classifies the market once per run. It never fails.
type RegimeClassifier interface {
	Detect(ctx context.Context) models.MarketRegime
}

// SectorStrengthEstimator returns a value in [0,1]. The returned value is always
// usable; a non-nil error only explains why it degraded to neutral.
type SectorStrengthEstimator interface {
	Strength(ctx context.Context, symbol string) (float64, error)
}

// PatternMatcher turns a daily price series into per-horizon analog outcomes.
type PatternMatcher interface {
	Match(points []models.PricePoint) (models.Outcomes, error)
}

// ConfidenceInput is everything needed to score one contract.
type ConfidenceInput struct {
	Spot           float64
	Strike         float64
	ContractType   models.ContractType
	DaysToExpiry   int
	Regime         models.RegimeLabel
	SectorStrength float64
	DailyVol       float64
	Outcomes       models.Outcomes
}

// ConfidenceEstimator scores a contract. ok is false when there is no signal.
type ConfidenceEstimator interface {
	Estimate(in ConfidenceInput) (confidence float64, breakdown models.ConfidenceBreakdown, ok bool)
}

// SizingInput is what a sizing policy sees.
type SizingInput struct {
	Confidence   float64
	ContractType models.ContractType
	Spot         float64
	Strike       float64
	Premium      float64
}

// SizingPolicy converts a scored contract into a contract count >= 1.
type SizingPolicy interface {
	Size(in SizingInput) int
}

// SeriesSource serves daily close series by symbol. Implementations used inside
// a run memoize per symbol and are safe for concurrent readers.
type SeriesSource interface {
	Closes(ctx context.Context, symbol string) ([]float64, error)
}
