package pattern

import (
	"math"
	"testing"
	"time"

	"OptEdge/internal/domain/models"
	"OptEdge/internal/services/features"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(closes []float64) []models.PricePoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = models.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return out
}

func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := float64(i)
		out[i] = 100 + 0.05*x + 8*math.Sin(x/6) + 3*math.Cos(x/2.3)
	}
	return out
}

func TestAnalogsRespectReservedWindow(t *testing.T) {
	pts := series(wave(250))
	m := NewMatcher(DefaultConfig())

	analogs, err := m.Analogs(pts)
	require.NoError(t, err)
	require.Len(t, analogs, 40)
	for i, a := range analogs {
		assert.GreaterOrEqual(t, a.Index, features.Warmup)
		assert.Less(t, a.Index, len(pts)-20, "analog inside reserved window")
		assert.GreaterOrEqual(t, a.Distance, 0.0)
		assert.Equal(t, pts[a.Index].Date, a.Timestamp)
		if i > 0 {
			assert.LessOrEqual(t, analogs[i-1].Distance, a.Distance)
		}
	}
}

func TestMatchUptrend(t *testing.T) {
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 50 + 0.5*float64(i)
	}
	out, err := NewMatcher(DefaultConfig()).Match(series(closes))
	require.NoError(t, err)
	require.Len(t, out, 4)

	for i, o := range out {
		assert.Equal(t, []int{3, 5, 10, 15}[i], o.HorizonDays)
		assert.Equal(t, 1.0, o.WinRate)
		assert.Greater(t, o.MeanReturn, 0.0)
		assert.GreaterOrEqual(t, o.Volatility, 0.0)
		assert.LessOrEqual(t, o.MinReturn, o.MeanReturn)
		assert.GreaterOrEqual(t, o.MaxReturn, o.MeanReturn)
	}
}

func TestMatchShortHistory(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	_, err := m.Match(nil)
	require.ErrorIs(t, err, models.ErrInsufficientHistory)

	// enough for indicators but everything sits in the reserved window
	_, err = m.Match(series(wave(features.Warmup + 15)))
	require.ErrorIs(t, err, models.ErrInsufficientHistory)
}

func TestBasicVariantUsesRecentPoints(t *testing.T) {
	pts := series(wave(120))
	m := NewMatcher(BasicConfig())

	analogs, err := m.Analogs(pts)
	require.NoError(t, err)
	assert.Len(t, analogs, 20)
	for _, a := range analogs {
		assert.Less(t, a.Index, len(pts)-1)
	}

	out, err := m.Match(pts)
	require.NoError(t, err)
	for _, o := range out {
		assert.LessOrEqual(t, o.Samples, 20)
	}
}

func TestAggregate(t *testing.T) {
	closes := []float64{100, 100, 100, 110, 90, 100}
	analogs := []models.PatternMatch{{Index: 0}, {Index: 1}, {Index: 4}}

	out := Aggregate(closes, analogs, []int{2, 3, 10})
	require.Len(t, out, 2)

	h2 := out[0]
	assert.Equal(t, 2, h2.HorizonDays)
	assert.Equal(t, 2, h2.Samples)
	assert.InDelta(t, 0.05, h2.MeanReturn, 1e-12)
	assert.InDelta(t, 0.05, h2.Volatility, 1e-12)
	assert.InDelta(t, 0.5, h2.WinRate, 1e-12)
	assert.InDelta(t, 0.05/(0.05+1e-8), h2.SharpeLike, 1e-9)
	assert.InDelta(t, 0.10, h2.MaxReturn, 1e-12)
	assert.InDelta(t, 0.0, h2.MinReturn, 1e-12)

	h3 := out[1]
	assert.Equal(t, 3, h3.HorizonDays)
	assert.InDelta(t, 0.0, h3.MeanReturn, 1e-12)
	assert.InDelta(t, 0.10, h3.Volatility, 1e-12)
	assert.InDelta(t, 0.5, h3.WinRate, 1e-12)
}

func TestHorizonsSorted(t *testing.T) {
	m := NewMatcher(Config{Neighbors: 5, Horizons: []int{15, 3, 10}})
	assert.Equal(t, []int{3, 10, 15}, m.Horizons())
}
