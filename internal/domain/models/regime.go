package models

import "time"

// RegimeLabel is the coarse market-state tag produced once per run.
type RegimeLabel string

const (
	RegimeBull        RegimeLabel = "BULL"
	RegimeBear        RegimeLabel = "BEAR"
	RegimeSideways    RegimeLabel = "SIDEWAYS"
	RegimeVolatile    RegimeLabel = "VOLATILE"
	RegimeNeutral     RegimeLabel = "NEUTRAL"
	RegimeNeutralBull RegimeLabel = "NEUTRAL_BULL"
	RegimeNeutralBear RegimeLabel = "NEUTRAL_BEAR"
)

// VIXSource records where MarketRegime.VolatilityIndex came from.
type VIXSource string

const (
	VIXFromIndex     VIXSource = "index"
	VIXEstimated     VIXSource = "estimated"
	VIXDefaultSource VIXSource = "default"
)

// MarketRegime is immutable once computed.
type MarketRegime struct {
	Label               RegimeLabel `json:"label"`
	VolatilityIndex     float64     `json:"volatility_index"`
	BenchmarkReturn     float64     `json:"benchmark_return"`
	BenchmarkVolatility float64     `json:"benchmark_volatility"`
	VIXSource           VIXSource   `json:"vix_source"`
	Timestamp           time.Time   `json:"timestamp"`
}

// IsValid reports whether l is one of the known labels.
func (l RegimeLabel) IsValid() bool {
	switch l {
	case RegimeBull, RegimeBear, RegimeSideways, RegimeVolatile,
		RegimeNeutral, RegimeNeutralBull, RegimeNeutralBear:
		return true
	default:
		return false
	}
}
