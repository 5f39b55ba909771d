package ranking

import (
	"testing"
	"time"

	"OptEdge/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cand(ticker string, strike, conf float64) models.OptionCandidate {
	return models.OptionCandidate{
		Ticker: ticker, Strike: strike, Confidence: conf,
		Premium: 1, Volume: 100, Variant: models.VariantFull,
	}
}

func strikes(cs []models.OptionCandidate) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Strike
	}
	return out
}

func TestRankFiltersAndSorts(t *testing.T) {
	cheap := cand("A", 1, 0.9)
	cheap.Premium = 0.1
	thin := cand("A", 2, 0.9)
	thin.Volume = 3
	weak := cand("A", 3, 0.4)

	r := NewRanker(Filter{MinPremium: 0.5, MinVolume: 10, MinScore: 0.55})
	in := []models.OptionCandidate{cand("A", 10, 0.6), cheap, thin, weak, cand("A", 11, 0.8), cand("A", 12, 0.6)}
	got := r.Rank(in)

	assert.Equal(t, []float64{11, 10, 12}, strikes(got))
	assert.Equal(t, 10.0, in[0].Strike, "input untouched")
}

func TestRankBasicUsesAttractiveness(t *testing.T) {
	a := models.OptionCandidate{Strike: 1, Confidence: 0.9, Attractiveness: 0.1, Premium: 1, Volume: 1, Variant: models.VariantBasic}
	b := models.OptionCandidate{Strike: 2, Confidence: 0.6, Attractiveness: 0.4, Premium: 1, Volume: 1, Variant: models.VariantBasic}
	got := NewRanker(Filter{}).Rank([]models.OptionCandidate{a, b})
	assert.Equal(t, []float64{2, 1}, strikes(got))
}

func TestTopPerTickerAndGlobal(t *testing.T) {
	r := NewRanker(Filter{})
	aaa := r.TopPerTicker([]models.OptionCandidate{cand("AAA", 1, 0.7), cand("AAA", 2, 0.9), cand("AAA", 3, 0.8)}, 2)
	bbb := r.TopPerTicker([]models.OptionCandidate{cand("BBB", 4, 0.7), cand("BBB", 5, 0.95)}, 2)
	require.Len(t, aaa, 2)
	assert.Equal(t, []float64{2, 3}, strikes(aaa))

	global := r.TopGlobal([][]models.OptionCandidate{aaa, bbb}, 3)
	assert.Equal(t, []float64{5, 2, 3}, strikes(global))

	// equal scores keep instrument order
	tie := r.TopGlobal([][]models.OptionCandidate{{cand("AAA", 1, 0.7)}, {cand("BBB", 2, 0.7)}}, 5)
	assert.Equal(t, []float64{1, 2}, strikes(tie))

	assert.Empty(t, r.TopGlobal(nil, 10))
}

func TestRankDropsRepeatedContracts(t *testing.T) {
	mar := time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC)
	apr := time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC)
	mk := func(ct models.ContractType, exp time.Time, strike, conf float64) models.OptionCandidate {
		c := cand("AAPL", strike, conf)
		c.ContractType, c.ExpiryDate = ct, exp
		return c
	}
	first := mk(models.Call, mar, 260, 0.8)
	again := mk(models.Call, mar, 260, 0.9)
	put := mk(models.Put, mar, 260, 0.7)
	later := mk(models.Call, apr, 260, 0.6)

	r := NewRanker(Filter{})
	got := r.Rank([]models.OptionCandidate{first, put, again, later})
	require.Len(t, got, 3)
	assert.Equal(t, 0.8, got[0].Confidence, "first occurrence is kept")
	assert.Equal(t, models.Put, got[1].ContractType)
	assert.Equal(t, apr, got[2].ExpiryDate)

	global := r.TopGlobal([][]models.OptionCandidate{{first}, {again}}, 5)
	assert.Len(t, global, 1)
}

func TestFilterThresholdPerVariant(t *testing.T) {
	f := Filter{MinPremium: 0.5, MinVolume: 10, MinScore: 0.55, MinAttractiveness: 0.05}

	basic := models.OptionCandidate{Premium: 4, Volume: 100, Confidence: 0.95, Attractiveness: 0.25, Variant: models.VariantBasic}
	assert.True(t, f.Accept(basic), "attractiveness is not held to the confidence bar")
	basic.Attractiveness = 0.01
	assert.False(t, f.Accept(basic))

	full := models.OptionCandidate{Premium: 4, Volume: 100, Confidence: 0.5, Attractiveness: 0.9, Variant: models.VariantFull}
	assert.False(t, f.Accept(full))
	full.Confidence = 0.6
	assert.True(t, f.Accept(full))
}
