package sector

import (
	"context"
	"sync"
	"testing"
	"time"

	"OptEdge/internal/domain/models"
	domrepo "OptEdge/internal/domain/repository"
	"OptEdge/internal/service/marketdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

// growth builds n closes compounding at rate per step.
func growth(n int, rate float64) []float64 {
	out := make([]float64, n)
	out[0] = 100
	for i := 1; i < n; i++ {
		out[i] = out[i-1] * (1 + rate)
	}
	return out
}

func TestStrengthFromRelative(t *testing.T) {
	assert.InDelta(t, 0.5, StrengthFromRelative(0), 1e-12)
	assert.InDelta(t, 1.0, StrengthFromRelative(0.15), 1e-12)
	assert.InDelta(t, 0.0, StrengthFromRelative(-0.15), 1e-12)
	assert.Equal(t, 1.0, StrengthFromRelative(0.9))
	assert.Equal(t, 0.0, StrengthFromRelative(-0.9))
}

func TestStrengthOutperformingSector(t *testing.T) {
	md := marketdata.NewMemoryProvider()
	md.SetHistory("XLK", asOf, growth(60, 0.004))
	md.SetHistory("SPY", asOf, growth(60, 0.0))

	e := NewEstimator(NewTable(nil), NewSeriesCache(md, domrepo.Lookback1y), "SPY")
	s, err := e.Strength(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Greater(t, s, 0.5)
	assert.LessOrEqual(t, s, 1.0)
	assert.Equal(t, "technology", e.Sector("aapl"))
}

func TestStrengthDegradesToNeutral(t *testing.T) {
	md := marketdata.NewMemoryProvider()
	md.SetHistory("SPY", asOf, growth(60, 0.001))
	md.SetHistory("XLE", asOf, growth(4, 0.01))
	e := NewEstimator(NewTable(nil), NewSeriesCache(md, domrepo.Lookback1y), "SPY")

	s, err := e.Strength(context.Background(), "ZZZZ")
	assert.Equal(t, Neutral, s)
	assert.ErrorIs(t, err, models.ErrUnknownSector)

	s, err = e.Strength(context.Background(), "XOM")
	assert.Equal(t, Neutral, s)
	assert.ErrorIs(t, err, models.ErrInsufficientHistory)

	s, err = e.Strength(context.Background(), "JPM")
	assert.Equal(t, Neutral, s)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestStrengthShortWindowStillComputes(t *testing.T) {
	md := marketdata.NewMemoryProvider()
	md.SetHistory("SPY", asOf, growth(60, 0))
	md.SetHistory("XLF", asOf, growth(8, -0.01))
	e := NewEstimator(NewTable(nil), NewSeriesCache(md, domrepo.Lookback1y), "SPY")

	s, err := e.Strength(context.Background(), "JPM")
	require.NoError(t, err)
	assert.Less(t, s, 0.5)
	assert.GreaterOrEqual(t, s, 0.0)
}

func TestTableOverrides(t *testing.T) {
	tbl := NewTable(map[string]string{"pltr": "Technology", "XOM": "utilities", "BAD": "nope"})
	s, ok := tbl.Lookup("PLTR")
	require.True(t, ok)
	assert.Equal(t, Technology, s)
	s, _ = tbl.Lookup("XOM")
	assert.Equal(t, Utilities, s)
	_, ok = tbl.Lookup("BAD")
	assert.False(t, ok)
}

func TestSeriesCacheFetchesOnce(t *testing.T) {
	md := marketdata.NewMemoryProvider()
	md.SetHistory("SPY", asOf, growth(30, 0.001))
	cache := NewSeriesCache(md, domrepo.Lookback1y)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			closes, err := cache.Closes(context.Background(), "spy")
			assert.NoError(t, err)
			assert.Len(t, closes, 30)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, md.Calls("history", "SPY"))

	_, err := cache.Closes(context.Background(), "QQQ")
	require.ErrorIs(t, err, models.ErrDataUnavailable)
	_, _ = cache.Closes(context.Background(), "QQQ")
	assert.Equal(t, 1, md.Calls("history", "QQQ"))
}
