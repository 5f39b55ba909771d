package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"OptEdge/pkg/logger"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string        `yaml:"environment" default:"dev"`
	Logging     logger.Config `yaml:"logging"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Scanner    Scanner    `yaml:"scanner"`
	Regime     Regime     `yaml:"regime"`
	Sector     Sector     `yaml:"sector"`
	Pattern    Pattern    `yaml:"pattern"`
	Confidence Confidence `yaml:"confidence"`
	Sizing     Sizing     `yaml:"sizing"`
	MarketData MarketData `yaml:"market_data"`
	History    struct {
		Source string `yaml:"source" default:"provider"` // provider | clickhouse
		Table  string `yaml:"table" default:"optedge.daily_bars"`
	} `yaml:"history"`
	Cache struct {
		Enabled  bool          `yaml:"enabled"`
		Backend  string        `yaml:"backend" default:"memory"` // memory | redis | layered
		Addr     string        `yaml:"addr" default:"localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		Prefix   string        `yaml:"prefix" default:"optedge"`
		TTL      time.Duration `yaml:"ttl" default:"15m"`
	} `yaml:"cache"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"optedge"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"optedge.candidates"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
}

type Scanner struct {
	Watchlist         []string `yaml:"watchlist"`
	Benchmark         string   `yaml:"benchmark" default:"SPY"`
	Lookback          string   `yaml:"lookback" default:"1y"`
	Variant           string   `yaml:"variant" default:"full"` // full | basic
	MinPremium        float64  `yaml:"min_premium" default:"0.5"`
	MinVolume         int64    `yaml:"min_volume" default:"10"`
	MinScore          float64  `yaml:"min_score" default:"0.55"`
	MinAttractiveness float64  `yaml:"min_attractiveness" default:"0.05"` // basic variant scores on a yield scale
	MaxDaysToExpiry   int      `yaml:"max_days_to_expiry" default:"45"`
	StrikeWindow      float64  `yaml:"strike_window" default:"0.10"`
	PerTickerTopK     int      `yaml:"per_ticker_top_k" default:"3"`
	GlobalTopN        int      `yaml:"global_top_n" default:"10"`
	Workers           int      `yaml:"workers" default:"1"`
	Seed              uint64   `yaml:"seed" default:"42"`
}

type Regime struct {
	ReturnWindow      int     `yaml:"return_window" default:"10"`
	VolWindow         int     `yaml:"vol_window" default:"20"`
	VIXFallbackWindow int     `yaml:"vix_fallback_window" default:"10"`
	DefaultVIX        float64 `yaml:"default_vix" default:"20"`
	DefaultVol        float64 `yaml:"default_vol" default:"0.20"`
}

type Sector struct {
	Window    int               `yaml:"window" default:"20"`
	MinWindow int               `yaml:"min_window" default:"5"`
	Symbols   map[string]string `yaml:"symbols"`
}

type Pattern struct {
	Neighbors      int   `yaml:"neighbors" default:"40"`
	ReservedWindow int   `yaml:"reserved_window" default:"20"`
	Horizons       []int `yaml:"horizons" default:"[3,5,10,15]"`
}

type Confidence struct {
	Samples     int `yaml:"samples" default:"1000"`
	DailyVolWin int `yaml:"daily_vol_window" default:"20"`
}

type Sizing struct {
	Policy           string  `yaml:"policy"` // kelly | allocation; empty follows the variant
	RiskBudget       float64 `yaml:"risk_budget" default:"10000"`
	PortfolioValue   float64 `yaml:"portfolio_value" default:"100000"`
	EquityAllocation float64 `yaml:"equity_allocation" default:"0.6"`
	CashAllocation   float64 `yaml:"cash_allocation" default:"0.4"`
	MaxContracts     int     `yaml:"max_contracts" default:"5"`
}

type MarketData struct {
	BaseURL          string        `yaml:"base_url" default:"http://localhost:8000"`
	Timeout          time.Duration `yaml:"timeout" default:"10s"`
	RequestsPerSec   float64       `yaml:"requests_per_sec" default:"5"`
	Burst            int           `yaml:"burst" default:"5"`
	BreakerFailures  uint32        `yaml:"breaker_failures" default:"5"`
	BreakerOpenFor   time.Duration `yaml:"breaker_open_for" default:"30s"`
	VolatilityIndex  string        `yaml:"volatility_index" default:"^VIX"`
	DividendFallback float64       `yaml:"dividend_fallback"`
}

// Default returns a config populated only from struct defaults.
// It panics on a malformed default tag.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse applies defaults, then the YAML document, then validates.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyEnv overrides fields from the environment and re-validates.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("OPTEDGE_WATCHLIST"); v != "" {
		c.Scanner.Watchlist = SplitList(v)
	}
	if v := getenv("OPTEDGE_MARKET_DATA_URL"); v != "" {
		c.MarketData.BaseURL = v
	}
	if v := getenv("OPTEDGE_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("OPTEDGE_SEED: %w", err)
		}
		c.Scanner.Seed = seed
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Addr = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = SplitList(v)
	}
	return c.Validate()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	s := c.Scanner
	if s.Variant != "full" && s.Variant != "basic" {
		return fmt.Errorf("scanner.variant must be 'full' or 'basic', got '%s'", s.Variant)
	}
	if s.Benchmark == "" {
		return fmt.Errorf("scanner.benchmark is required")
	}
	if s.StrikeWindow <= 0 || s.StrikeWindow > 1 {
		return fmt.Errorf("scanner.strike_window must be in (0,1], got %v", s.StrikeWindow)
	}
	if s.MaxDaysToExpiry < 1 {
		return fmt.Errorf("scanner.max_days_to_expiry must be >= 1")
	}
	if s.PerTickerTopK < 1 || s.GlobalTopN < 1 {
		return fmt.Errorf("scanner.per_ticker_top_k and scanner.global_top_n must be >= 1")
	}
	if s.Workers < 1 {
		return fmt.Errorf("scanner.workers must be >= 1")
	}
	if s.MinAttractiveness < 0 {
		return fmt.Errorf("scanner.min_attractiveness must be >= 0")
	}
	if c.MarketData.DividendFallback < 0 {
		return fmt.Errorf("market_data.dividend_fallback must be >= 0")
	}
	if c.Pattern.Neighbors < 1 {
		return fmt.Errorf("pattern.neighbors must be >= 1")
	}
	if c.Pattern.ReservedWindow < 0 {
		return fmt.Errorf("pattern.reserved_window must be >= 0")
	}
	if len(c.Pattern.Horizons) == 0 {
		return fmt.Errorf("pattern.horizons cannot be empty")
	}
	for _, h := range c.Pattern.Horizons {
		if h < 1 {
			return fmt.Errorf("pattern.horizons must be positive, got %d", h)
		}
	}
	if c.Confidence.Samples < 1 {
		return fmt.Errorf("confidence.samples must be >= 1")
	}
	if c.Sector.MinWindow < 1 || c.Sector.Window < c.Sector.MinWindow {
		return fmt.Errorf("sector.window must be >= sector.min_window >= 1")
	}
	switch c.Sizing.Policy {
	case "", "kelly", "allocation":
	default:
		return fmt.Errorf("sizing.policy must be 'kelly' or 'allocation', got '%s'", c.Sizing.Policy)
	}
	if c.Sizing.MaxContracts < 1 {
		return fmt.Errorf("sizing.max_contracts must be >= 1")
	}
	switch c.History.Source {
	case "provider":
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required when history.source is clickhouse")
		}
	default:
		return fmt.Errorf("history.source must be 'provider' or 'clickhouse', got '%s'", c.History.Source)
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be memory, redis or layered, got '%s'", c.Cache.Backend)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}

// SplitList splits a comma separated list and drops blank entries.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
