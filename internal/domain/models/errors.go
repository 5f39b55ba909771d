package models

import "errors"

var (
	ErrDataUnavailable      = errors.New("data unavailable")
	ErrInsufficientHistory  = errors.New("insufficient history")
	ErrDegenerateStatistics = errors.New("degenerate statistics")
	ErrComputation          = errors.New("computation failure")
	ErrUnknownSector        = errors.New("unknown sector")
	ErrNoSignal             = errors.New("no signal")
)

// SkipReason maps an error to a short tag for logs and metrics labels.
func SkipReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, ErrDegenerateStatistics):
		return "degenerate_statistics"
	case errors.Is(err, ErrNoSignal):
		return "no_signal"
	case errors.Is(err, ErrUnknownSector):
		return "unknown_sector"
	case errors.Is(err, ErrComputation):
		return "computation"
	default:
		return "other"
	}
}
