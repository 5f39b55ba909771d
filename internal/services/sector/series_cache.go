package sector

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"OptEdge/internal/domain/models"
	domrepo "OptEdge/internal/domain/repository"
	domsvc "OptEdge/internal/domain/service"
)

type seriesEntry struct {
	once   sync.Once
	points []models.PricePoint
	closes []float64
	err    error
}

// SeriesCache fetches each symbol's history at most once. It is created per run
// so a new run always sees fresh data.
type SeriesCache struct {
	data     domrepo.MarketData
	lookback domrepo.Lookback

	mu      sync.Mutex
	entries map[string]*seriesEntry
}

func NewSeriesCache(data domrepo.MarketData, lookback domrepo.Lookback) *SeriesCache {
	return &SeriesCache{
		data:     data,
		lookback: domrepo.NormalizeLookback(string(lookback)),
		entries:  make(map[string]*seriesEntry),
	}
}

// Closes returns the memoized close series for symbol.
func (c *SeriesCache) Closes(ctx context.Context, symbol string) ([]float64, error) {
	e := c.load(ctx, symbol)
	return e.closes, e.err
}

// Points returns the memoized dated series for symbol. Callers must not modify it.
func (c *SeriesCache) Points(ctx context.Context, symbol string) ([]models.PricePoint, error) {
	e := c.load(ctx, symbol)
	return e.points, e.err
}

// load fetches symbol once. Concurrent callers of the same symbol share one
// fetch and errors are memoized as well.
func (c *SeriesCache) load(ctx context.Context, symbol string) *seriesEntry {
	key := strings.ToUpper(symbol)
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &seriesEntry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		points, err := c.data.PriceHistory(ctx, key, c.lookback)
		if err != nil {
			e.err = fmt.Errorf("history %s: %w", key, err)
			return
		}
		if len(points) == 0 {
			e.err = fmt.Errorf("history %s: empty: %w", key, models.ErrDataUnavailable)
			return
		}
		e.points = points
		e.closes = models.Closes(points)
	})
	return e
}

var _ domsvc.SeriesSource = (*SeriesCache)(nil)
