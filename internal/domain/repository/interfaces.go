package repository

import (
	"context"

	"OptEdge/internal/domain/models"
)

// CandidatePublisher hands ranked candidates to the reporting side.
type CandidatePublisher interface {
	PublishCandidates(ctx context.Context, runID string, regime models.MarketRegime, cands []models.OptionCandidate) error
	Close() error
}

type Metrics interface {
	RecordCandidates(ticker string, n int)
	RecordSkip(reason string)
	RecordRegime(label string)
	RecordLatency(op string, seconds float64)
	RecordError(kind string)
}
