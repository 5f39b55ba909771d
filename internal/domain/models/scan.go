package models

import "time"

// TickerResult is the per-instrument part of a scan.
type TickerResult struct {
	Ticker         string            `json:"ticker"`
	Spot           float64           `json:"spot,omitempty"`
	Sector         string            `json:"sector,omitempty"`
	SectorStrength float64           `json:"sector_strength,omitempty"`
	Outcomes       Outcomes          `json:"outcomes,omitempty"`
	Candidates     []OptionCandidate `json:"candidates"`
	SkipReason     string            `json:"skip_reason,omitempty"`
}

// ScanResult is everything a batch run hands to reporting.
type ScanResult struct {
	RunID    string            `json:"run_id"`
	AsOf     time.Time         `json:"as_of"`
	Variant  Variant           `json:"variant"`
	Regime   MarketRegime      `json:"regime"`
	Tickers  []TickerResult    `json:"tickers"`
	Top      []OptionCandidate `json:"top"`
	Duration time.Duration     `json:"duration"`
}
