package models

import "time"

// TechnicalSnapshot is the feature vector of one historical point.
type TechnicalSnapshot struct {
	MASpread5_20   float64 `json:"ma_spread_5_20"`
	MASpread10_20  float64 `json:"ma_spread_10_20"`
	RSI            float64 `json:"rsi"`
	MACDSignalDiff float64 `json:"macd_signal_diff"`
}

// PatternMatch is a historical analog of the current snapshot.
type PatternMatch struct {
	Snapshot  TechnicalSnapshot
	Distance  float64
	Index     int
	Timestamp time.Time
}

// TimeframeOutcome aggregates the forward returns of all analogs for one horizon.
type TimeframeOutcome struct {
	HorizonDays int     `json:"horizon_days"`
	Samples     int     `json:"samples"`
	MeanReturn  float64 `json:"mean_return"`
	WinRate     float64 `json:"win_rate"`
	Volatility  float64 `json:"volatility"`
	SharpeLike  float64 `json:"sharpe_like"`
	MaxReturn   float64 `json:"max_return"`
	MinReturn   float64 `json:"min_return"`
}

// Outcomes is ordered by ascending horizon.
type Outcomes []TimeframeOutcome

// Lookup returns the outcome for horizon h.
func (o Outcomes) Lookup(h int) (TimeframeOutcome, bool) {
	for _, out := range o {
		if out.HorizonDays == h {
			return out, true
		}
	}
	return TimeframeOutcome{}, false
}

// First returns the shortest available horizon.
func (o Outcomes) First() (TimeframeOutcome, bool) {
	if len(o) == 0 {
		return TimeframeOutcome{}, false
	}
	return o[0], true
}
