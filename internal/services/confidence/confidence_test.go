package confidence

import (
	"math/rand/v2"
	"testing"

	"OptEdge/internal/domain/models"
	domsvc "OptEdge/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func newEstimator(samples int, seed uint64) *Estimator {
	return NewEstimator(samples, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func TestBaseProbabilityMatchesNormalCDF(t *testing.T) {
	const mean, vol = 0.01, 0.05
	dist := distuv.Normal{Mu: mean, Sigma: vol}

	cases := []struct {
		name   string
		ct     models.ContractType
		strike float64
		want   float64
	}{
		{"otm call", models.Call, 107, 1 - dist.CDF(0.07)},
		{"itm put", models.Put, 107, dist.CDF(0.07)},
		{"deep put", models.Put, 94, dist.CDF(-0.06)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := newEstimator(1000, 7).BaseProbability(100, tc.strike, tc.ct, mean, vol)
			assert.InDelta(t, tc.want, got, 0.03)
		})
	}

	// at the median the sampling error is largest; use more draws
	got := newEstimator(20000, 11).BaseProbability(100, 101, models.Call, mean, vol)
	assert.InDelta(t, 0.5, got, 0.03)
}

func TestBaseProbabilityZeroVol(t *testing.T) {
	e := newEstimator(100, 1)
	assert.Equal(t, 1.0, e.BaseProbability(100, 100, models.Call, 0.02, 0))
	assert.Equal(t, 0.0, e.BaseProbability(100, 100, models.Put, 0.02, 0))
}

func TestEstimateBounds(t *testing.T) {
	regimes := []models.RegimeLabel{
		models.RegimeBull, models.RegimeBear, models.RegimeSideways, models.RegimeVolatile,
		models.RegimeNeutral, models.RegimeNeutralBull, models.RegimeNeutralBear,
	}
	outs := models.Outcomes{
		{HorizonDays: 3, MeanReturn: 0.2, Volatility: 0.01, SharpeLike: 20},
		{HorizonDays: 10, MeanReturn: -0.2, Volatility: 0.01, SharpeLike: -20},
	}
	e := newEstimator(500, 3)
	for _, r := range regimes {
		for _, ct := range models.ContractTypes {
			for _, dte := range []int{1, 10, 45} {
				c, b, ok := e.Estimate(domsvc.ConfidenceInput{
					Spot: 100, Strike: 95, ContractType: ct, DaysToExpiry: dte,
					Regime: r, SectorStrength: 1.3, DailyVol: 5, Outcomes: outs,
				})
				require.True(t, ok)
				assert.GreaterOrEqual(t, c, MinConfidence)
				assert.LessOrEqual(t, c, MaxConfidence)
				assert.Equal(t, c, b.FinalConfidence)
				for _, f := range []float64{b.RegimeMultiplier, b.TimeFactor, b.VolFactor, b.SharpeBonus, b.SectorScale} {
					assert.Greater(t, f, 0.0)
				}
			}
		}
	}
}

func TestEstimateNoSignal(t *testing.T) {
	c, b, ok := newEstimator(100, 1).Estimate(domsvc.ConfidenceInput{Spot: 100, Strike: 100, ContractType: models.Call, DaysToExpiry: 10})
	assert.False(t, ok)
	assert.Zero(t, c)
	assert.Equal(t, models.ConfidenceBreakdown{}, b)
}

func TestEstimateFactors(t *testing.T) {
	outs := models.Outcomes{{HorizonDays: 10, MeanReturn: 0.05, Volatility: 0, SharpeLike: 1}}
	c, b, ok := newEstimator(100, 1).Estimate(domsvc.ConfidenceInput{
		Spot: 100, Strike: 102, ContractType: models.Call, DaysToExpiry: 21,
		Regime: models.RegimeBull, SectorStrength: 0.5, DailyVol: 0.02, Outcomes: outs,
	})
	require.True(t, ok)
	assert.Equal(t, 10, b.HorizonDays)
	assert.Equal(t, 1.0, b.BaseProbability)
	assert.Equal(t, 1.2, b.RegimeMultiplier)
	assert.InDelta(t, 0.7, b.TimeFactor, 1e-12)
	assert.InDelta(t, 1.0, b.VolFactor, 1e-12)
	assert.InDelta(t, 1.3, b.SharpeBonus, 1e-12)
	assert.InDelta(t, 1.0, b.SectorScale, 1e-12)
	assert.InDelta(t, 0.95, c, 1e-12)
}

func TestSelectOutcomeFallsBackToShortest(t *testing.T) {
	outs := models.Outcomes{{HorizonDays: 5}, {HorizonDays: 15}}
	o, ok := SelectOutcome(outs, 20)
	require.True(t, ok)
	assert.Equal(t, 5, o.HorizonDays)

	o, _ = SelectOutcome(outs, 40)
	assert.Equal(t, 15, o.HorizonDays)
}

func TestHorizonFor(t *testing.T) {
	assert.Equal(t, 3, HorizonFor(7))
	assert.Equal(t, 5, HorizonFor(8))
	assert.Equal(t, 5, HorizonFor(14))
	assert.Equal(t, 10, HorizonFor(30))
	assert.Equal(t, 15, HorizonFor(31))
}

func TestFactors(t *testing.T) {
	assert.Equal(t, 0.1, TimeFactor(0))
	assert.Equal(t, 1.0, TimeFactor(90))
	assert.Equal(t, minVolFactor, VolFactor(0, 100, 700))
	assert.Equal(t, 1.0, SharpeBonus(-3))
	assert.InDelta(t, 0.8, SectorScale(-1), 1e-12)
	assert.InDelta(t, 1.2, SectorScale(1), 1e-12)
}

func TestRegimeMultiplier(t *testing.T) {
	assert.Equal(t, 1.2, RegimeMultiplier(models.RegimeBull, models.Call))
	assert.Equal(t, 0.8, RegimeMultiplier(models.RegimeBull, models.Put))
	assert.Equal(t, 1.2, RegimeMultiplier(models.RegimeBear, models.Put))
	assert.Equal(t, 1.0, RegimeMultiplier(models.RegimeNeutral, models.Put))
	assert.Equal(t, 1.1, RegimeMultiplier(models.RegimeNeutralBull, models.Call))
	assert.Equal(t, 1.1, RegimeMultiplier(models.RegimeNeutralBear, models.Put))
}

func TestBasicScorer(t *testing.T) {
	outs := models.Outcomes{{HorizonDays: 10, WinRate: 0.7}}
	p, a, b, ok := BasicScorer{}.Score(BasicInput{
		ContractType: models.Put, Regime: models.RegimeNeutral, DaysToExpiry: 20,
		Strike: 100, Premium: 2, DividendYield: 0.0365, Outcomes: outs,
	})
	require.True(t, ok)
	assert.InDelta(t, 0.3, p, 1e-12)
	assert.InDelta(t, 0.3, b.BaseProbability, 1e-12)
	// (0.02 + 0.0365*20/365) * 365/20 = 0.365 + 0.0365
	assert.InDelta(t, 0.3*(0.365+0.0365), a, 1e-9)

	p, _, _, ok = BasicScorer{}.Score(BasicInput{
		ContractType: models.Call, Regime: models.RegimeBull, DaysToExpiry: 20,
		Strike: 100, Premium: 2, Outcomes: models.Outcomes{{HorizonDays: 3, WinRate: 1}},
	})
	require.True(t, ok)
	assert.Equal(t, MaxConfidence, p)

	_, _, _, ok = BasicScorer{}.Score(BasicInput{ContractType: models.Call, DaysToExpiry: 20, Strike: 100})
	assert.False(t, ok)
}
