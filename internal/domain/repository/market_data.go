package repository

import (
	"context"
	"time"

	"OptEdge/internal/domain/models"
)

// MarketData is the market-data collaborator. Implementations bound every call
// by their own timeout; an empty history is a valid answer, not an error.
type MarketData interface {
	PriceHistory(ctx context.Context, symbol string, lookback Lookback) ([]models.PricePoint, error)
	VolatilityIndexLevel(ctx context.Context) (float64, error)
	OptionChain(ctx context.Context, symbol string, expiry time.Time) (models.OptionChain, error)
	Expirations(ctx context.Context, symbol string) ([]time.Time, error)
	DividendYield(ctx context.Context, symbol string) (float64, error)
}

// PriceHistoryStore is the subset of MarketData served by a local history store.
type PriceHistoryStore interface {
	PriceHistory(ctx context.Context, symbol string, lookback Lookback) ([]models.PricePoint, error)
}

// PriceHistoryWriter persists daily closes, idempotently per (symbol, day).
type PriceHistoryWriter interface {
	SavePriceHistory(ctx context.Context, symbol string, points []models.PricePoint) error
}
