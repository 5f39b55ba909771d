package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xhttp "OptEdge/pkg/http"
	"OptEdge/pkg/logger"
)

type closer struct {
	name  string
	order *[]string
	err   error
}

func (c closer) Close() error {
	*c.order = append(*c.order, c.name)
	return c.err
}

func TestApp_RunStopsOnContext(t *testing.T) {
	var order []string
	srv := xhttp.NewServer(nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithMetricsPath(""))
	app := New(srv, logger.Nop(), time.Second,
		closer{name: "clickhouse", order: &order},
		closer{name: "cache", order: &order, err: errors.New("already closed")},
		CloseFunc(func() { order = append(order, "cleanup") }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Equal(t, []string{"cleanup", "cache", "clickhouse"}, order)
}

func TestApp_ShutdownClosesOnce(t *testing.T) {
	n := 0
	app := New(xhttp.NewServer(nil, xhttp.WithMetricsPath("")), nil, 0, CloseFunc(func() { n++ }))
	require.NoError(t, app.Shutdown(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))
	assert.Equal(t, 1, n)
}
