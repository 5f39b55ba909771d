package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewWithRegistry(prometheus.NewRegistry())

	r.RecordCandidates("AAPL", 3)
	r.RecordCandidates("AAPL", 2)
	r.RecordSkip("insufficient_history")
	r.RecordRegime("BULL")
	r.RecordRegime("BEAR")
	r.RecordLatency("scan", 0.4)

	assert.Equal(t, 5.0, testutil.ToFloat64(r.candidates.WithLabelValues("AAPL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.skips.WithLabelValues("insufficient_history")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.regime.WithLabelValues("BEAR")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.regime))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}
