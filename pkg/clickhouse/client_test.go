package clickhouse

import (
	"context"
	"testing"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOptions(t *testing.T) {
	opts := buildOptions(ClientConfig{
		Host: "ch.internal", Port: 8123, Database: "optedge", User: "reader", Password: "pw",
		UseHTTP: true, DialTimeout: time.Second, MaxExecTime: 30 * time.Second,
	})
	assert.Equal(t, []string{"ch.internal:8123"}, opts.Addr)
	assert.Equal(t, "optedge", opts.Auth.Database)
	assert.Equal(t, "reader", opts.Auth.Username)
	assert.Equal(t, ch.HTTP, opts.Protocol)
	assert.Equal(t, 30, opts.Settings["max_execution_time"])

	native := buildOptions(ClientConfig{Host: "localhost", Port: 9000})
	assert.Equal(t, ch.Native, native.Protocol)
	assert.Nil(t, native.Settings)
}

func TestNewClientRequiresHost(t *testing.T) {
	_, err := NewClient(context.Background())
	require.Error(t, err)
}
