package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"OptEdge/internal/domain/models"
	domrepo "OptEdge/internal/domain/repository"
	pkgch "OptEdge/pkg/clickhouse"
	applogger "OptEdge/pkg/logger"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CHPriceStore serves daily closes from a ClickHouse table of (symbol, day, close).
type CHPriceStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHPriceStore(ch *pkgch.Client, table string) (*CHPriceStore, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &CHPriceStore{db: ch.DB(), table: table}, nil
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

// Schema returns the DDL for the backing table.
func (s *CHPriceStore) Schema() []string {
	stmts := make([]string, 0, 2)
	if db, _, ok := strings.Cut(s.table, "."); ok {
		stmts = append(stmts, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", db))
	}
	return append(stmts, fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            symbol LowCardinality(String),
            day    Date,
            close  Float64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, day)`, s.table))
}

// PriceHistory returns up to lookback.TradingDays() most recent closes in ascending date order.
func (s *CHPriceStore) PriceHistory(ctx context.Context, symbol string, lookback domrepo.Lookback) ([]models.PricePoint, error) {
	start := time.Now()
	n := lookback.TradingDays()
	q := fmt.Sprintf(`
        SELECT day, close
        FROM %s FINAL
        WHERE symbol = ?
        ORDER BY day DESC
        LIMIT ?`, s.table)
	rows, err := s.db.QueryContext(ctx, q, strings.ToUpper(symbol), n)
	if err != nil {
		s.l.Error("clickhouse price_history query error",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("price history %s: %w: %w", symbol, models.ErrDataUnavailable, err)
	}
	defer rows.Close()

	tmp := make([]models.PricePoint, 0, n)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		tmp = append(tmp, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	s.l.Debug("clickhouse price_history ok",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(tmp)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return tmp, nil
}

// SavePriceHistory upserts points for symbol in a single transaction.
func (s *CHPriceStore) SavePriceHistory(ctx context.Context, symbol string, points []models.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (symbol, day, close)", s.table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	sym := strings.ToUpper(symbol)
	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, sym, p.Date, p.Close); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s %s: %w", sym, p.Date.Format(time.DateOnly), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.l.Info("clickhouse price_history saved", applogger.String("symbol", sym), applogger.Int("rows", len(points)))
	return nil
}

var _ domrepo.PriceHistoryStore = (*CHPriceStore)(nil)

var _ domrepo.PriceHistoryWriter = (*CHPriceStore)(nil)
