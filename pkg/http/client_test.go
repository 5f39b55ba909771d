package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1y", r.URL.Query().Get("period"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"level": 18.5}`))
	}))
	defer srv.Close()

	var out struct{ Level float64 }
	c := NewClient(WithTimeout(time.Second))
	require.NoError(t, c.GetJSON(context.Background(), srv.URL+"/vix", url.Values{"period": {"1y"}}, &out))
	assert.Equal(t, 18.5, out.Level)
}

func TestGetJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such symbol", http.StatusNotFound)
	}))
	defer srv.Close()

	err := NewClient().GetJSON(context.Background(), srv.URL, nil, nil)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.False(t, se.Temporary())
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBreaker("test", 2, time.Minute))
	for i := 0; i < 2; i++ {
		require.Error(t, c.GetJSON(context.Background(), srv.URL, nil, nil))
	}
	err := c.GetJSON(context.Background(), srv.URL, nil, nil)
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), hits.Load())
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBreaker("test", 1, time.Minute))
	for i := 0; i < 3; i++ {
		err := c.GetJSON(context.Background(), srv.URL, nil, nil)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}
}

func TestRetryTemporary(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(WithRateLimit(100, 1))
	require.NoError(t, c.GetJSONWithRetry(context.Background(), srv.URL, nil, &struct{}{}, 3))
	assert.Equal(t, int32(3), hits.Load())
}
