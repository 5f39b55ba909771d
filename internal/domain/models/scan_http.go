package models

// ScanRequest is the query of GET /api/scan. Tickers is a comma separated
// list; empty means the configured watch list.
type ScanRequest struct {
	Tickers string `query:"tickers" json:"tickers"`
	Top     int    `query:"top" json:"top" default:"10" validate:"gte=1,lte=100"`
	PerTick int    `query:"per_ticker" json:"per_ticker" default:"3" validate:"gte=1,lte=50"`
	Variant string `query:"variant" json:"variant" default:"full" validate:"oneof=full basic"`
}
