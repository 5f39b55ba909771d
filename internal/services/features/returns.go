package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualizes daily statistics.
const TradingDaysPerYear = 252.0

// Returns computes simple returns r_t = C_t / C_{t-1} - 1.
// It returns a slice of length len(closes)-1, or nil if insufficient data.
// Non-positive prices yield a zero return for that step.
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev, cur := closes[i-1], closes[i]
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, cur/prev-1)
	}
	return out
}

// PeriodReturn is the return between the close `window` points before the last one and the last close.
// ok is false when the series is too short or the base price is not positive.
func PeriodReturn(closes []float64, window int) (float64, bool) {
	if window < 1 || len(closes) < window+1 {
		return 0, false
	}
	base := closes[len(closes)-1-window]
	if base <= 0 {
		return 0, false
	}
	return closes[len(closes)-1]/base - 1, true
}

// DailyVolatility is the sample standard deviation of the last `window` returns.
func DailyVolatility(returns []float64, window int) (float64, bool) {
	if window <= 1 || len(returns) < window {
		return 0, false
	}
	sd := stat.StdDev(returns[len(returns)-window:], nil)
	if math.IsNaN(sd) || math.IsInf(sd, 0) {
		return 0, false
	}
	return sd, true
}

// RealizedVolatility computes annualized realized volatility over the latest window
// using the provided number of bars per year.
func RealizedVolatility(returns []float64, window int, barsPerYear float64) (float64, bool) {
	sd, ok := DailyVolatility(returns, window)
	if !ok {
		return 0, false
	}
	return sd * math.Sqrt(barsPerYear), true
}

// MeanStd returns the mean and population standard deviation of xs.
func MeanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(xs, nil)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
