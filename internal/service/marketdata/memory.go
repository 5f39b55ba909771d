package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"OptEdge/internal/domain/models"
	domrepo "OptEdge/internal/domain/repository"
)

// MemoryProvider serves market data held in memory. It backs offline runs and tests.
type MemoryProvider struct {
	mu        sync.RWMutex
	history   map[string][]models.PricePoint
	chains    map[string]map[int64]models.OptionChain
	dividends map[string]float64
	vix       float64
	hasVIX    bool
	calls     map[string]int
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		history:   make(map[string][]models.PricePoint),
		chains:    make(map[string]map[int64]models.OptionChain),
		dividends: make(map[string]float64),
		calls:     make(map[string]int),
	}
}

// SetHistory stores a close series for symbol. Dates are assigned one day apart ending at end.
func (m *MemoryProvider) SetHistory(symbol string, end time.Time, closes []float64) {
	points := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = models.PricePoint{Date: end.AddDate(0, 0, i-len(closes)+1), Close: c}
	}
	m.mu.Lock()
	m.history[strings.ToUpper(symbol)] = points
	m.mu.Unlock()
}

func (m *MemoryProvider) SetVIX(level float64) {
	m.mu.Lock()
	m.vix, m.hasVIX = level, true
	m.mu.Unlock()
}

func (m *MemoryProvider) SetChain(symbol string, chain models.OptionChain) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToUpper(symbol)
	if m.chains[key] == nil {
		m.chains[key] = make(map[int64]models.OptionChain)
	}
	m.chains[key][chain.Expiry.Unix()] = chain
}

func (m *MemoryProvider) SetDividendYield(symbol string, y float64) {
	m.mu.Lock()
	m.dividends[strings.ToUpper(symbol)] = y
	m.mu.Unlock()
}

// Calls reports how many times op was invoked for symbol ("" for VIX).
func (m *MemoryProvider) Calls(op, symbol string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op+":"+strings.ToUpper(symbol)]
}

func (m *MemoryProvider) count(op, symbol string) {
	m.calls[op+":"+strings.ToUpper(symbol)]++
}

func (m *MemoryProvider) PriceHistory(ctx context.Context, symbol string, lookback domrepo.Lookback) ([]models.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("history", symbol)
	points := m.history[strings.ToUpper(symbol)]
	if n := lookback.TradingDays(); len(points) > n {
		points = points[len(points)-n:]
	}
	return append([]models.PricePoint(nil), points...), nil
}

func (m *MemoryProvider) VolatilityIndexLevel(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("vix", "")
	if !m.hasVIX {
		return 0, fmt.Errorf("vix: %w", models.ErrDataUnavailable)
	}
	return m.vix, nil
}

func (m *MemoryProvider) OptionChain(ctx context.Context, symbol string, expiry time.Time) (models.OptionChain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("chain", symbol)
	chain, ok := m.chains[strings.ToUpper(symbol)][expiry.Unix()]
	if !ok {
		return models.OptionChain{}, fmt.Errorf("chain %s %s: %w", symbol, expiry.Format(time.DateOnly), models.ErrDataUnavailable)
	}
	return chain, nil
}

func (m *MemoryProvider) Expirations(ctx context.Context, symbol string) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("expirations", symbol)
	var out []time.Time
	for _, c := range m.chains[strings.ToUpper(symbol)] {
		out = append(out, c.Expiry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (m *MemoryProvider) DividendYield(ctx context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("dividend", symbol)
	return m.dividends[strings.ToUpper(symbol)], nil
}

var _ domrepo.MarketData = (*MemoryProvider)(nil)
