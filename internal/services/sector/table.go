package sector

import "strings"

// Sector is a coarse industry tag.
type Sector string

const (
	Technology            Sector = "technology"
	Financials            Sector = "financials"
	Healthcare            Sector = "healthcare"
	Energy                Sector = "energy"
	ConsumerDiscretionary Sector = "consumer_discretionary"
	ConsumerStaples       Sector = "consumer_staples"
	Industrials           Sector = "industrials"
	Utilities             Sector = "utilities"
	Materials             Sector = "materials"
	RealEstate            Sector = "real_estate"
	Communication         Sector = "communication"
)

// ETF returns the sector benchmark fund.
func (s Sector) ETF() (string, bool) {
	switch s {
	case Technology:
		return "XLK", true
	case Financials:
		return "XLF", true
	case Healthcare:
		return "XLV", true
	case Energy:
		return "XLE", true
	case ConsumerDiscretionary:
		return "XLY", true
	case ConsumerStaples:
		return "XLP", true
	case Industrials:
		return "XLI", true
	case Utilities:
		return "XLU", true
	case Materials:
		return "XLB", true
	case RealEstate:
		return "XLRE", true
	case Communication:
		return "XLC", true
	default:
		return "", false
	}
}

var builtin = map[string]Sector{
	"AAPL": Technology, "MSFT": Technology, "NVDA": Technology, "AMD": Technology,
	"INTC": Technology, "ORCL": Technology, "CRM": Technology, "ADBE": Technology,
	"AVGO": Technology, "CSCO": Technology, "QCOM": Technology, "IBM": Technology,
	"JPM": Financials, "BAC": Financials, "WFC": Financials, "GS": Financials,
	"MS": Financials, "C": Financials, "V": Financials, "MA": Financials, "BRK-B": Financials,
	"JNJ": Healthcare, "UNH": Healthcare, "PFE": Healthcare, "MRK": Healthcare,
	"ABBV": Healthcare, "LLY": Healthcare, "TMO": Healthcare,
	"XOM": Energy, "CVX": Energy, "COP": Energy, "SLB": Energy, "OXY": Energy,
	"AMZN": ConsumerDiscretionary, "TSLA": ConsumerDiscretionary, "HD": ConsumerDiscretionary,
	"NKE": ConsumerDiscretionary, "MCD": ConsumerDiscretionary, "SBUX": ConsumerDiscretionary,
	"PG": ConsumerStaples, "KO": ConsumerStaples, "PEP": ConsumerStaples,
	"WMT": ConsumerStaples, "COST": ConsumerStaples,
	"BA": Industrials, "CAT": Industrials, "GE": Industrials, "HON": Industrials,
	"UPS": Industrials, "DE": Industrials,
	"NEE": Utilities, "DUK": Utilities, "SO": Utilities,
	"LIN": Materials, "FCX": Materials, "NEM": Materials,
	"AMT": RealEstate, "PLD": RealEstate, "O": RealEstate,
	"GOOGL": Communication, "GOOG": Communication, "META": Communication,
	"NFLX": Communication, "DIS": Communication, "T": Communication, "VZ": Communication,
}

// Table maps instrument symbols to sectors.
type Table struct {
	symbols map[string]Sector
}

// NewTable returns the built-in table extended by overrides (symbol -> sector tag).
// Overrides naming an unknown sector are ignored.
func NewTable(overrides map[string]string) *Table {
	m := make(map[string]Sector, len(builtin)+len(overrides))
	for k, v := range builtin {
		m[k] = v
	}
	for sym, tag := range overrides {
		s := Sector(strings.ToLower(strings.TrimSpace(tag)))
		if _, ok := s.ETF(); ok {
			m[strings.ToUpper(sym)] = s
		}
	}
	return &Table{symbols: m}
}

// Lookup returns the sector of symbol.
func (t *Table) Lookup(symbol string) (Sector, bool) {
	s, ok := t.symbols[strings.ToUpper(symbol)]
	return s, ok
}
