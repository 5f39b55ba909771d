package confidence

import (
	"OptEdge/internal/domain/models"
	"OptEdge/internal/services/features"
)

// BasicInput is what the heuristic scorer needs for one contract.
type BasicInput struct {
	ContractType  models.ContractType
	Regime        models.RegimeLabel
	DaysToExpiry  int
	Strike        float64
	Premium       float64
	DividendYield float64
	Outcomes      models.Outcomes
}

// BasicScorer is the simplified variant: analog win rate instead of simulation,
// ranked by probability-weighted annualized yield.
type BasicScorer struct{}

// Score returns the bounded probability, the attractiveness and the breakdown. ok is false without a signal.
func (BasicScorer) Score(in BasicInput) (probability, attractiveness float64, b models.ConfidenceBreakdown, ok bool) {
	o, found := SelectOutcome(in.Outcomes, in.DaysToExpiry)
	if !found || in.DaysToExpiry < 1 || in.Strike <= 0 {
		return 0, 0, models.ConfidenceBreakdown{}, false
	}
	base := o.WinRate
	if in.ContractType == models.Put {
		base = 1 - o.WinRate
	}
	b = models.ConfidenceBreakdown{
		HorizonDays:      o.HorizonDays,
		BaseProbability:  base,
		RegimeMultiplier: RegimeMultiplier(in.Regime, in.ContractType),
		TimeFactor:       1,
		VolFactor:        1,
		SharpeBonus:      1,
		SectorScale:      1,
	}
	probability = features.Clamp(base*b.RegimeMultiplier, MinConfidence, MaxConfidence)
	b.FinalConfidence = probability
	return probability, probability * AnnualizedYield(in.Premium, in.Strike, in.DividendYield, in.DaysToExpiry), b, true
}

// AnnualizedYield is premium over strike plus the dividend carried to expiry, annualized.
func AnnualizedYield(premium, strike, dividendYield float64, dte int) float64 {
	if strike <= 0 || dte < 1 {
		return 0
	}
	days := float64(dte)
	return (premium/strike + dividendYield*days/365) * 365 / days
}
