package features

import (
	"fmt"

	"OptEdge/internal/domain/models"

	"github.com/markcheno/go-talib"
)

const (
	rsiPeriod  = 14
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// Warmup is the first index at which every indicator is defined.
const Warmup = (macdSlow - 1) + (macdSignal - 1)

// Indicators holds the per-point technical series of one close series.
type Indicators struct {
	Close      []float64
	SMA5       []float64
	SMA10      []float64
	SMA20      []float64
	RSI        []float64
	MACD       []float64
	MACDSignal []float64
}

// ComputeIndicators runs the technical indicators over closes.
// Series shorter than Warmup+1 points are rejected with ErrInsufficientHistory.
func ComputeIndicators(closes []float64) (ind *Indicators, err error) {
	if len(closes) < Warmup+1 {
		return nil, fmt.Errorf("indicators: %d points, need %d: %w", len(closes), Warmup+1, models.ErrInsufficientHistory)
	}
	defer func() {
		if r := recover(); r != nil {
			ind, err = nil, fmt.Errorf("indicators: %v: %w", r, models.ErrComputation)
		}
	}()
	macd, signal, _ := talib.Macd(closes, macdFast, macdSlow, macdSignal)
	return &Indicators{
		Close:      closes,
		SMA5:       talib.Sma(closes, 5),
		SMA10:      talib.Sma(closes, 10),
		SMA20:      talib.Sma(closes, 20),
		RSI:        talib.Rsi(closes, rsiPeriod),
		MACD:       macd,
		MACDSignal: signal,
	}, nil
}

// Len is the number of points.
func (ind *Indicators) Len() int { return len(ind.Close) }

// Snapshot builds the feature vector at index i. MA spreads are relative to SMA20
// and the MACD difference is relative to the close so that vectors are comparable across price levels.
func (ind *Indicators) Snapshot(i int) models.TechnicalSnapshot {
	s := models.TechnicalSnapshot{RSI: ind.RSI[i]}
	if base := ind.SMA20[i]; base > 0 {
		s.MASpread5_20 = (ind.SMA5[i] - base) / base
		s.MASpread10_20 = (ind.SMA10[i] - base) / base
	}
	if c := ind.Close[i]; c > 0 {
		s.MACDSignalDiff = (ind.MACD[i] - ind.MACDSignal[i]) / c
	}
	return s
}
