package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	domrepo "OptEdge/internal/domain/repository"
	"OptEdge/pkg/logger"
)

// HistoryBackfill copies daily closes from the market-data provider into the
// local history store, so later runs can read history without the gateway.
type HistoryBackfill struct {
	source   domrepo.MarketData
	sink     domrepo.PriceHistoryWriter
	lookback domrepo.Lookback
	log      *logger.Logger
}

func NewHistoryBackfill(source domrepo.MarketData, sink domrepo.PriceHistoryWriter, lookback domrepo.Lookback, l *logger.Logger) *HistoryBackfill {
	return &HistoryBackfill{source: source, sink: sink, lookback: domrepo.NormalizeLookback(string(lookback)), log: l}
}

// BackfillReport counts rows written per symbol; Failed maps a symbol to its error.
type BackfillReport struct {
	Rows   map[string]int
	Failed map[string]error
}

// Run processes symbols sequentially. A failing symbol does not stop the rest;
// the returned error joins every failure.
func (b *HistoryBackfill) Run(ctx context.Context, symbols []string) (BackfillReport, error) {
	rep := BackfillReport{Rows: make(map[string]int), Failed: make(map[string]error)}
	var errs []error
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("backfill: %w", err)
		}
		start := time.Now()
		points, err := b.source.PriceHistory(ctx, sym, b.lookback)
		if err == nil {
			err = b.sink.SavePriceHistory(ctx, sym, points)
		}
		if err != nil {
			err = fmt.Errorf("backfill %s: %w", sym, err)
			rep.Failed[sym] = err
			errs = append(errs, err)
			b.log.Warn("Backfill failed", logger.String("symbol", sym), logger.Error(err))
			continue
		}
		rep.Rows[sym] = len(points)
		b.log.Info("Backfilled history", logger.String("symbol", sym),
			logger.Int("rows", len(points)), logger.Duration("duration_ms", time.Since(start)))
	}
	return rep, errors.Join(errs...)
}
