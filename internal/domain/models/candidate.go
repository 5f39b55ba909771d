package models

import "time"

// Variant selects the scoring pipeline.
type Variant string

const (
	VariantFull  Variant = "full"
	VariantBasic Variant = "basic"
)

// ConfidenceBreakdown keeps every factor that went into FinalConfidence.
type ConfidenceBreakdown struct {
	HorizonDays      int     `json:"horizon_days"`
	BaseProbability  float64 `json:"base_probability"`
	RegimeMultiplier float64 `json:"regime_multiplier"`
	TimeFactor       float64 `json:"time_factor"`
	VolFactor        float64 `json:"vol_factor"`
	SharpeBonus      float64 `json:"sharpe_bonus"`
	SectorScale      float64 `json:"sector_scale"`
	FinalConfidence  float64 `json:"final_confidence"`
}

// OptionCandidate is a scored, sized contract. Immutable after construction.
type OptionCandidate struct {
	Ticker            string              `json:"ticker"`
	Sector            string              `json:"sector"`
	ContractType      ContractType        `json:"contract_type"`
	Strike            float64             `json:"strike"`
	Spot              float64             `json:"spot"`
	Premium           float64             `json:"premium"`
	DaysToExpiry      int                 `json:"days_to_expiry"`
	ExpiryDate        time.Time           `json:"expiry_date"`
	ImpliedVolatility float64             `json:"implied_volatility"`
	Volume            int64               `json:"volume"`
	DividendYield     float64             `json:"dividend_yield,omitempty"`
	Confidence        float64             `json:"confidence"`
	Attractiveness    float64             `json:"attractiveness,omitempty"`
	Breakdown         ConfidenceBreakdown `json:"breakdown"`
	SuggestedSize     int                 `json:"suggested_size"`
	Variant           Variant             `json:"variant"`
}

// Score is the ranking key for the candidate's variant.
func (c OptionCandidate) Score() float64 {
	if c.Variant == VariantBasic {
		return c.Attractiveness
	}
	return c.Confidence
}
