package models

import "time"

// ContractType is CALL or PUT.
type ContractType string

const (
	Call ContractType = "CALL"
	Put  ContractType = "PUT"
)

// ContractTypes lists both contract types in scan order.
var ContractTypes = []ContractType{Call, Put}

// PricePoint is one daily close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Closes extracts the close column.
func Closes(points []PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Close
	}
	return out
}

// OptionContract is a single listed contract as returned by the market-data provider.
type OptionContract struct {
	Strike            float64 `json:"strike"`
	LastPrice         float64 `json:"lastPrice"`
	Volume            int64   `json:"volume"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
}

// OptionChain holds calls and puts for one expiry.
type OptionChain struct {
	Expiry time.Time        `json:"expiry"`
	Calls  []OptionContract `json:"calls"`
	Puts   []OptionContract `json:"puts"`
}

// Contracts returns the side of the chain for ct.
func (c OptionChain) Contracts(ct ContractType) []OptionContract {
	switch ct {
	case Call:
		return c.Calls
	case Put:
		return c.Puts
	}
	return nil
}
