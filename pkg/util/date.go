package util

import (
	"math"
	"strconv"
	"time"
	_ "time/tzdata"
)

var marketTZ = loadMarketTZ()

func loadMarketTZ() *time.Location {
	if loc, err := time.LoadLocation("America/New_York"); err == nil {
		return loc
	}
	return time.FixedZone("EST", -5*3600)
}

// ParseTime tries YYYY-MM-DD, RFC3339, RFC3339Nano and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ExpiryClose returns 16:00 New York time on the calendar date of expiry.
func ExpiryClose(expiry time.Time) time.Time {
	y, m, d := expiry.Date()
	return time.Date(y, m, d, 16, 0, 0, 0, marketTZ)
}

// DaysToExpiry counts calendar days from asOf to the session close on expiry, rounded, never negative.
func DaysToExpiry(asOf, expiry time.Time) int {
	days := int(math.Round(ExpiryClose(expiry).Sub(asOf).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
