package marketdata

import (
	"context"
	"errors"
	"strings"
	"time"

	"OptEdge/internal/domain/models"
	domrepo "OptEdge/internal/domain/repository"
	"OptEdge/pkg/cache"
	"OptEdge/pkg/logger"
)

// CachedProvider decorates a MarketData with a cross-run cache. Cache failures
// degrade to a direct call and are never returned to the caller.
type CachedProvider struct {
	next  domrepo.MarketData
	cache cache.Service
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedProvider(next domrepo.MarketData, c cache.Service, ttl time.Duration, l *logger.Logger) *CachedProvider {
	return &CachedProvider{next: next, cache: c, ttl: ttl, log: l}
}

// cached loads key into dest from the cache, or calls fetch and stores its result.
func cached[T any](ctx context.Context, p *CachedProvider, key string, fetch func() (T, error)) (T, error) {
	var v T
	err := p.cache.Get(ctx, key, &v)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		p.log.Warn("cache read failed", logger.String("key", key), logger.Error(err))
	}
	v, err = fetch()
	if err != nil {
		return v, err
	}
	if err := p.cache.Set(ctx, key, v, p.ttl); err != nil {
		p.log.Warn("cache write failed", logger.String("key", key), logger.Error(err))
	}
	return v, nil
}

func (p *CachedProvider) PriceHistory(ctx context.Context, symbol string, lookback domrepo.Lookback) ([]models.PricePoint, error) {
	key := cache.Key("history", strings.ToUpper(symbol), lookback)
	return cached(ctx, p, key, func() ([]models.PricePoint, error) {
		return p.next.PriceHistory(ctx, symbol, lookback)
	})
}

func (p *CachedProvider) VolatilityIndexLevel(ctx context.Context) (float64, error) {
	return cached(ctx, p, "vix", func() (float64, error) {
		return p.next.VolatilityIndexLevel(ctx)
	})
}

func (p *CachedProvider) OptionChain(ctx context.Context, symbol string, expiry time.Time) (models.OptionChain, error) {
	key := cache.Key("chain", strings.ToUpper(symbol), expiry.Format(time.DateOnly))
	return cached(ctx, p, key, func() (models.OptionChain, error) {
		return p.next.OptionChain(ctx, symbol, expiry)
	})
}

func (p *CachedProvider) Expirations(ctx context.Context, symbol string) ([]time.Time, error) {
	return cached(ctx, p, cache.Key("expirations", strings.ToUpper(symbol)), func() ([]time.Time, error) {
		return p.next.Expirations(ctx, symbol)
	})
}

func (p *CachedProvider) DividendYield(ctx context.Context, symbol string) (float64, error) {
	return cached(ctx, p, cache.Key("dividend", strings.ToUpper(symbol)), func() (float64, error) {
		return p.next.DividendYield(ctx, symbol)
	})
}

var _ domrepo.MarketData = (*CachedProvider)(nil)
