package sector

import (
	"context"
	"fmt"

	"OptEdge/internal/domain/models"
	domsvc "OptEdge/internal/domain/service"
	"OptEdge/internal/services/features"
	"OptEdge/pkg/logger"
)

const (
	// Neutral is returned whenever strength cannot be computed.
	Neutral = 0.5

	relativeSpan = 0.15
)

// Estimator computes sector momentum relative to the broad benchmark.
type Estimator struct {
	table     *Table
	series    domsvc.SeriesSource
	benchmark string
	window    int
	minWindow int
	log       *logger.Logger
}

type Option func(*Estimator)

func WithWindow(window, minWindow int) Option {
	return func(e *Estimator) {
		if window > 0 {
			e.window = window
		}
		if minWindow > 0 {
			e.minWindow = minWindow
		}
	}
}

func WithLogger(l *logger.Logger) Option { return func(e *Estimator) { e.log = l } }

// NewEstimator builds an estimator reading series from the run-scoped source.
func NewEstimator(table *Table, series domsvc.SeriesSource, benchmark string, opts ...Option) *Estimator {
	e := &Estimator{table: table, series: series, benchmark: benchmark, window: 20, minWindow: 5}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Sector returns the sector tag of symbol, or "" when unknown.
func (e *Estimator) Sector(symbol string) string {
	s, _ := e.table.Lookup(symbol)
	return string(s)
}

// Strength returns a value in [0,1]. On any failure it returns Neutral together with the reason.
func (e *Estimator) Strength(ctx context.Context, symbol string) (float64, error) {
	sec, ok := e.table.Lookup(symbol)
	if !ok {
		return Neutral, fmt.Errorf("sector %s: %w", symbol, models.ErrUnknownSector)
	}
	etf, _ := sec.ETF()

	sectorCloses, err := e.series.Closes(ctx, etf)
	if err != nil {
		e.log.Debug("sector series unavailable", logger.String("etf", etf), logger.Error(err))
		return Neutral, fmt.Errorf("sector %s: %w", symbol, err)
	}
	marketCloses, err := e.series.Closes(ctx, e.benchmark)
	if err != nil {
		return Neutral, fmt.Errorf("sector %s benchmark: %w", symbol, err)
	}

	n := min(e.window, len(sectorCloses)-1, len(marketCloses)-1)
	if n < e.minWindow {
		return Neutral, fmt.Errorf("sector %s: %d points: %w", symbol, n, models.ErrInsufficientHistory)
	}
	sectorRet, ok1 := features.PeriodReturn(sectorCloses, n)
	marketRet, ok2 := features.PeriodReturn(marketCloses, n)
	if !ok1 || !ok2 {
		return Neutral, fmt.Errorf("sector %s: %w", symbol, models.ErrDegenerateStatistics)
	}
	return StrengthFromRelative(sectorRet - marketRet), nil
}

// StrengthFromRelative maps a relative return in [-0.15, +0.15] linearly onto [0,1], clamped.
func StrengthFromRelative(rel float64) float64 {
	return features.Clamp((rel+relativeSpan)/(2*relativeSpan), 0, 1)
}

var _ domsvc.SectorStrengthEstimator = (*Estimator)(nil)
