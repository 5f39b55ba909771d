package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte("environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "SPY", c.Scanner.Benchmark)
	assert.Equal(t, "full", c.Scanner.Variant)
	assert.Equal(t, 40, c.Pattern.Neighbors)
	assert.Equal(t, 20, c.Pattern.ReservedWindow)
	assert.Equal(t, []int{3, 5, 10, 15}, c.Pattern.Horizons)
	assert.Equal(t, 1000, c.Confidence.Samples)
	assert.Equal(t, uint64(42), c.Scanner.Seed)
	assert.Equal(t, 10*time.Second, c.MarketData.Timeout)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, 0.55, c.Scanner.MinScore)
	assert.Equal(t, 0.05, c.Scanner.MinAttractiveness)
}

func TestDefaultMatchesEmptyDocument(t *testing.T) {
	var d *Config
	require.NotPanics(t, func() { d = Default() })
	c, err := Parse([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, c, d)
}

func TestParseOverridesDefaults(t *testing.T) {
	doc := `
environment: prod
scanner:
  watchlist: [AAPL, MSFT]
  variant: basic
  workers: 4
pattern:
  horizons: [5, 10]
sector:
  symbols:
    PLTR: technology
`
	c, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, c.Scanner.Watchlist)
	assert.Equal(t, "basic", c.Scanner.Variant)
	assert.Equal(t, 4, c.Scanner.Workers)
	assert.Equal(t, []int{5, 10}, c.Pattern.Horizons)
	assert.Equal(t, "technology", c.Sector.Symbols["PLTR"])
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"variant":    "environment: x\nscanner: {variant: turbo}\n",
		"horizon":    "environment: x\npattern: {horizons: [0]}\n",
		"policy":     "environment: x\nsizing: {policy: martingale}\n",
		"clickhouse": "environment: x\nhistory: {source: clickhouse}\n",
		"kafka":      "environment: x\nkafka: {enabled: true}\n",
		"attractive": "environment: x\nscanner: {min_attractiveness: -0.1}\n",
		"dividend":   "environment: x\nmarket_data: {dividend_fallback: -1}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	env := map[string]string{
		"OPTEDGE_WATCHLIST": " aapl, MSFT ,,",
		"OPTEDGE_SEED":      "7",
		"KAFKA_BROKERS":     "k1:9092,k2:9092",
	}
	require.NoError(t, c.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, []string{"aapl", "MSFT"}, c.Scanner.Watchlist)
	assert.Equal(t, uint64(7), c.Scanner.Seed)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)

	bad := func(k string) string {
		if k == "OPTEDGE_SEED" {
			return "-1"
		}
		return ""
	}
	require.Error(t, c.ApplyEnv(bad))
}
