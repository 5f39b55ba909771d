package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeDateOnly(t *testing.T) {
	got, ok := ParseTime("2025-01-17")
	if !ok || got.Day() != 17 || got.Month() != time.January {
		t.Fatalf("unexpected %v %v", got, ok)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
	if _, ok := ParseTime("soon"); ok {
		t.Fatalf("expected failure")
	}
}

func TestDaysToExpiry(t *testing.T) {
	// 2025-06-02 is a Monday; 14:00 UTC is 10:00 in New York
	asOf := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	cases := []struct {
		expiry string
		want   int
	}{
		{"2025-06-02", 0},
		{"2025-06-06", 4},
		{"2025-06-20", 18},
		{"2025-05-30", 0},
	}
	for _, tc := range cases {
		exp, _ := time.Parse(time.DateOnly, tc.expiry)
		if got := DaysToExpiry(asOf, exp); got != tc.want {
			t.Errorf("DaysToExpiry(%s) = %d, want %d", tc.expiry, got, tc.want)
		}
	}
}

func TestExpiryCloseIsNewYorkFourPM(t *testing.T) {
	exp, _ := time.Parse(time.DateOnly, "2025-01-17")
	got := ExpiryClose(exp).UTC()
	if got.Hour() != 21 || got.Day() != 17 {
		t.Fatalf("expected 21:00 UTC in winter, got %v", got)
	}
}
