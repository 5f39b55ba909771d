package repository

// Lookback is a price-history period understood by the market-data provider.
type Lookback string

const (
	Lookback1mo Lookback = "1mo"
	Lookback3mo Lookback = "3mo"
	Lookback6mo Lookback = "6mo"
	Lookback1y  Lookback = "1y"
	Lookback2y  Lookback = "2y"
)

// IsValidLookback returns true if lb is a supported period.
func IsValidLookback(lb Lookback) bool {
	switch lb {
	case Lookback1mo, Lookback3mo, Lookback6mo, Lookback1y, Lookback2y:
		return true
	default:
		return false
	}
}

// DefaultLookback returns the default history period.
func DefaultLookback() Lookback { return Lookback1y }

// NormalizeLookback converts raw string to a valid period (or default).
func NormalizeLookback(s string) Lookback {
	if s == "" {
		return DefaultLookback()
	}
	lb := Lookback(s)
	if IsValidLookback(lb) {
		return lb
	}
	return DefaultLookback()
}

// TradingDays is the approximate number of daily bars in lb.
func (lb Lookback) TradingDays() int {
	switch lb {
	case Lookback1mo:
		return 21
	case Lookback3mo:
		return 63
	case Lookback6mo:
		return 126
	case Lookback1y:
		return 252
	case Lookback2y:
		return 504
	default:
		return 252
	}
}
