package marketdata

import (
	"context"

	"OptEdge/internal/domain/models"
	domrepo "OptEdge/internal/domain/repository"
	"OptEdge/pkg/logger"
)

// HistoryOverlay serves PriceHistory from a local store and everything else from next.
// Symbols the store has no rows for fall through to next.
type HistoryOverlay struct {
	domrepo.MarketData
	store domrepo.PriceHistoryStore
	log   *logger.Logger
}

func NewHistoryOverlay(next domrepo.MarketData, store domrepo.PriceHistoryStore, l *logger.Logger) *HistoryOverlay {
	return &HistoryOverlay{MarketData: next, store: store, log: l}
}

func (h *HistoryOverlay) PriceHistory(ctx context.Context, symbol string, lookback domrepo.Lookback) ([]models.PricePoint, error) {
	pts, err := h.store.PriceHistory(ctx, symbol, lookback)
	if err == nil && len(pts) > 0 {
		return pts, nil
	}
	if err != nil {
		h.log.Warn("history store read failed, using provider", logger.String("ticker", symbol), logger.Error(err))
	}
	return h.MarketData.PriceHistory(ctx, symbol, lookback)
}
