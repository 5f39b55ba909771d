package confidence

import (
	"math"
	"math/rand/v2"

	"OptEdge/internal/domain/models"
	domsvc "OptEdge/internal/domain/service"
	"OptEdge/internal/services/features"
)

const (
	MinConfidence = 0.05
	MaxConfidence = 0.95

	DefaultSamples = 1000

	minVolFactor = 0.1
)

// Estimator is the Monte-Carlo confidence scorer. It is not safe for concurrent use:
// each instrument gets its own Estimator over its own random stream.
type Estimator struct {
	samples int
	rng     *rand.Rand
}

func NewEstimator(samples int, rng *rand.Rand) *Estimator {
	if samples < 1 {
		samples = DefaultSamples
	}
	return &Estimator{samples: samples, rng: rng}
}

// Estimate returns ok=false with zero confidence when there are no outcomes.
func (e *Estimator) Estimate(in domsvc.ConfidenceInput) (float64, models.ConfidenceBreakdown, bool) {
	o, ok := SelectOutcome(in.Outcomes, in.DaysToExpiry)
	if !ok {
		return 0, models.ConfidenceBreakdown{}, false
	}

	b := models.ConfidenceBreakdown{
		HorizonDays:      o.HorizonDays,
		BaseProbability:  e.BaseProbability(in.Spot, in.Strike, in.ContractType, o.MeanReturn, o.Volatility),
		RegimeMultiplier: RegimeMultiplier(in.Regime, in.ContractType),
		TimeFactor:       TimeFactor(in.DaysToExpiry),
		VolFactor:        VolFactor(in.DailyVol, in.Spot, in.Strike),
		SharpeBonus:      SharpeBonus(o.SharpeLike),
		SectorScale:      SectorScale(in.SectorStrength),
	}
	raw := b.BaseProbability * b.RegimeMultiplier * b.TimeFactor * b.VolFactor * b.SharpeBonus * b.SectorScale
	b.FinalConfidence = features.Clamp(raw, MinConfidence, MaxConfidence)
	return b.FinalConfidence, b, true
}

// BaseProbability simulates terminal prices spot*(1+r), r ~ Normal(mean, vol), and
// returns the fraction finishing at or beyond the strike in the contract's favor.
func (e *Estimator) BaseProbability(spot, strike float64, ct models.ContractType, mean, vol float64) float64 {
	if vol < 0 || math.IsNaN(vol) {
		vol = 0
	}
	hits := 0
	for i := 0; i < e.samples; i++ {
		terminal := spot * (1 + mean + vol*e.rng.NormFloat64())
		switch ct {
		case models.Call:
			if terminal >= strike {
				hits++
			}
		case models.Put:
			if terminal <= strike {
				hits++
			}
		}
	}
	return float64(hits) / float64(e.samples)
}

func TimeFactor(dte int) float64 {
	return features.Clamp(float64(dte)/30, 0.1, 1)
}

// VolFactor rewards (or penalizes) distance from spot by the instrument's daily volatility.
func VolFactor(dailyVol, spot, strike float64) float64 {
	if spot <= 0 {
		return 1
	}
	moneyness := math.Abs(strike-spot) / spot
	return math.Max(minVolFactor, 1+(dailyVol*10-0.2)*moneyness)
}

func SharpeBonus(sharpe float64) float64 {
	return 1 + features.Clamp(sharpe/2, 0, 0.3)
}

func SectorScale(strength float64) float64 {
	return 0.8 + 0.4*features.Clamp(strength, 0, 1)
}

var _ domsvc.ConfidenceEstimator = (*Estimator)(nil)
