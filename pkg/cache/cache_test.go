package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	in := []point{{"2025-01-02", 101.5}}
	require.NoError(t, c.Set(ctx, "history:AAPL", in, time.Minute))

	var out []point
	require.NoError(t, c.Get(ctx, "history:AAPL", &out))
	assert.Equal(t, in, out)

	out[0].Close = 0
	var again []point
	require.NoError(t, c.Get(ctx, "history:AAPL", &again))
	assert.Equal(t, 101.5, again[0].Close)

	require.NoError(t, c.Delete(ctx, "history:AAPL"))
	assert.ErrorIs(t, c.Get(ctx, "history:AAPL", &out), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(WithMemoryClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "vix", 18.0, time.Minute))
	var v float64
	require.NoError(t, c.Get(ctx, "vix", &v))

	now = now.Add(time.Minute)
	assert.ErrorIs(t, c.Get(ctx, "vix", &v), ErrCacheMiss)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := func() time.Time { now = now.Add(time.Second); return now }
	c := NewMemoryCache(WithMemoryMaxSize(2), WithMemoryClock(tick))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	var v int
	require.NoError(t, c.Get(ctx, "a", &v))
	require.NoError(t, c.Set(ctx, "c", 3, 0))

	assert.Equal(t, 2, c.Len())
	assert.ErrorIs(t, c.Get(ctx, "b", &v), ErrCacheMiss)
	require.NoError(t, c.Get(ctx, "a", &v))
	assert.Equal(t, 1, v)
}

func TestLayeredCachePromotesFromL2(t *testing.T) {
	ctx := context.Background()
	l1, l2 := NewMemoryCache(), NewMemoryCache()
	c := NewLayeredCache(l1, l2, time.Minute)

	require.NoError(t, l2.Set(ctx, "div:KO", 0.031, time.Hour))
	var y float64
	require.NoError(t, c.Get(ctx, "div:KO", &y))
	assert.Equal(t, 0.031, y)
	assert.Equal(t, 1, l1.Len())

	require.NoError(t, c.Delete(ctx, "div:KO"))
	assert.ErrorIs(t, c.Get(ctx, "div:KO", &y), ErrCacheMiss)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "history:AAPL:1y", Key("history", "AAPL", "1y"))
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "optedge-test"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", point{"2025-01-02", 1}, time.Minute))
	var out point
	require.NoError(t, c.Get(ctx, "k", &out))
	assert.Equal(t, 1.0, out.Close)
	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrCacheMiss)
}
