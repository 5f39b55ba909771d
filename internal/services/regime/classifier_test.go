package regime

import (
	"context"
	"testing"
	"time"

	"OptEdge/internal/domain/models"
	domrepo "OptEdge/internal/domain/repository"
	"OptEdge/internal/service/marketdata"
	"OptEdge/internal/services/sector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		name      string
		vix, r, v float64
		want      models.RegimeLabel
	}{
		{"high vix high vol", 35, 0, 0.30, models.RegimeVolatile},
		{"high vix low vol", 35, 0, 0.10, models.RegimeBear},
		{"low vix rising", 12, 0.04, 0.1, models.RegimeBull},
		{"low vix falling", 12, -0.05, 0.1, models.RegimeSideways},
		{"mid vix mild up", 22, 0.03, 0.1, models.RegimeNeutralBull},
		{"mid vix mild down", 22, -0.03, 0.1, models.RegimeNeutralBear},
		{"mid vix flat", 22, 0, 0.1, models.RegimeNeutral},
		{"elevated vix holding", 28, -0.01, 0.1, models.RegimeVolatile},
		{"elevated vix falling", 28, -0.05, 0.1, models.RegimeBear},
		{"calm strong up", 17, 0.04, 0.1, models.RegimeBull},
		{"calm strong down", 17, -0.04, 0.1, models.RegimeBear},
		{"calm flat", 17, 0.01, 0.1, models.RegimeSideways},
		{"boundary 30", 30, 0, 0.5, models.RegimeVolatile},
		{"boundary 25", 25, 0.03, 0.1, models.RegimeNeutralBull},
		{"boundary 15", 15, 0, 0.1, models.RegimeSideways},
		{"boundary 20", 20, 0, 0.1, models.RegimeNeutral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.vix, tc.r, tc.v))
		})
	}
}

func TestEstimateVIXClamped(t *testing.T) {
	flat := make([]float64, 10)
	v, ok := EstimateVIX(flat, 10)
	require.True(t, ok)
	assert.Equal(t, minEstimatedVIX, v)

	wild := []float64{0.1, -0.1, 0.1, -0.1, 0.1, -0.1, 0.1, -0.1, 0.1, -0.1}
	v, ok = EstimateVIX(wild, 10)
	require.True(t, ok)
	assert.Equal(t, maxEstimatedVIX, v)

	_, ok = EstimateVIX(flat[:3], 10)
	assert.False(t, ok)
}

func rising(n int, rate float64) []float64 {
	out := make([]float64, n)
	out[0] = 400
	for i := 1; i < n; i++ {
		out[i] = out[i-1] * (1 + rate)
	}
	return out
}

func TestDetectWithIndex(t *testing.T) {
	md := marketdata.NewMemoryProvider()
	md.SetVIX(12)
	md.SetHistory("SPY", now, rising(60, 0.005))

	c := NewClassifier(DefaultConfig(), md, sector.NewSeriesCache(md, domrepo.Lookback1y), WithClock(func() time.Time { return now }))
	r := c.Detect(context.Background())

	assert.Equal(t, models.RegimeBull, r.Label)
	assert.Equal(t, models.VIXFromIndex, r.VIXSource)
	assert.Equal(t, 12.0, r.VolatilityIndex)
	assert.InDelta(t, 0.0511, r.BenchmarkReturn, 1e-3)
	assert.InDelta(t, 0, r.BenchmarkVolatility, 1e-9)
	assert.Equal(t, now, r.Timestamp)
}

func TestDetectEstimatesIndex(t *testing.T) {
	md := marketdata.NewMemoryProvider()
	md.SetHistory("SPY", now, rising(60, 0.001))

	c := NewClassifier(DefaultConfig(), md, sector.NewSeriesCache(md, domrepo.Lookback1y))
	r := c.Detect(context.Background())

	assert.Equal(t, models.VIXEstimated, r.VIXSource)
	assert.Equal(t, minEstimatedVIX, r.VolatilityIndex)
	assert.Equal(t, models.RegimeBull, r.Label)
}

func TestDetectTotalFailure(t *testing.T) {
	md := marketdata.NewMemoryProvider()
	c := NewClassifier(DefaultConfig(), md, sector.NewSeriesCache(md, domrepo.Lookback1y))
	r := c.Detect(context.Background())

	assert.Equal(t, models.RegimeNeutral, r.Label)
	assert.Equal(t, 20.0, r.VolatilityIndex)
	assert.Equal(t, 0.0, r.BenchmarkReturn)
	assert.Equal(t, 0.20, r.BenchmarkVolatility)
	assert.Equal(t, models.VIXDefaultSource, r.VIXSource)
}
