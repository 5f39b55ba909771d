package repository

import (
	"context"
	"time"

	"OptEdge/internal/domain/models"
	domrepo "OptEdge/internal/domain/repository"
	pkgkafka "OptEdge/pkg/kafka"
)

type batchProducer interface {
	PublishBatch(ctx context.Context, messages []pkgkafka.Message) error
	Close() error
}

// CandidateEvent is the wire form of one ranked candidate.
type CandidateEvent struct {
	RunID     string                 `json:"run_id"`
	Rank      int                    `json:"rank"`
	Regime    models.RegimeLabel     `json:"regime"`
	VIX       float64                `json:"vix"`
	Published time.Time              `json:"published_at"`
	Candidate models.OptionCandidate `json:"candidate"`
}

// KafkaCandidatePublisher publishes one message per candidate, keyed by ticker.
type KafkaCandidatePublisher struct {
	producer batchProducer
	now      func() time.Time
}

func NewKafkaCandidatePublisher(producer *pkgkafka.Producer) *KafkaCandidatePublisher {
	return &KafkaCandidatePublisher{producer: producer, now: time.Now}
}

func (p *KafkaCandidatePublisher) PublishCandidates(ctx context.Context, runID string, regime models.MarketRegime, cands []models.OptionCandidate) error {
	if len(cands) == 0 {
		return nil
	}
	ts := p.now()
	msgs := make([]pkgkafka.Message, len(cands))
	for i, c := range cands {
		msgs[i] = pkgkafka.Message{
			Key: []byte(c.Ticker),
			Value: CandidateEvent{
				RunID:     runID,
				Rank:      i + 1,
				Regime:    regime.Label,
				VIX:       regime.VolatilityIndex,
				Published: ts,
				Candidate: c,
			},
		}
	}
	return p.producer.PublishBatch(ctx, msgs)
}

func (p *KafkaCandidatePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher discards candidates. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishCandidates(context.Context, string, models.MarketRegime, []models.OptionCandidate) error {
	return nil
}

func (NopPublisher) Close() error { return nil }

var (
	_ domrepo.CandidatePublisher = (*KafkaCandidatePublisher)(nil)
	_ domrepo.CandidatePublisher = NopPublisher{}
)
