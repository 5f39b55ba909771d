package di

import (
	"context"
	"fmt"
	"time"

	"github.com/google/wire"

	"OptEdge/internal/domain/models"
	"OptEdge/internal/domain/repository"
	"OptEdge/internal/handler/api"
	internalrepo "OptEdge/internal/repository"
	"OptEdge/internal/service/marketdata"
	"OptEdge/internal/services/pattern"
	"OptEdge/internal/services/ranking"
	"OptEdge/internal/services/regime"
	"OptEdge/internal/services/sector"
	"OptEdge/internal/services/sizing"
	"OptEdge/internal/usecase"
	"OptEdge/pkg/cache"
	pkgch "OptEdge/pkg/clickhouse"
	"OptEdge/pkg/config"
	xhttp "OptEdge/pkg/http"
	pkgkafka "OptEdge/pkg/kafka"
	"OptEdge/pkg/logger"
	"OptEdge/pkg/metrics"
)

// ProviderSet is everything InitializeRuntime needs.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	wire.Bind(new(repository.Metrics), new(*metrics.Recorder)),
	ProvideClickHouseClient,
	ProvidePriceStore,
	ProvideCache,
	ProvideHTTPProvider,
	ProvideMarketData,
	ProvideKafkaProducer,
	ProvidePublisher,
	ProvideSectorTable,
	ProvideScannerConfig,
	ProvideScanner,
	ProvideScanHandler,
	ProvideHTTPServer,
	wire.Struct(new(Runtime), "*"),
)

// Runtime holds the wired graph the CLI commands work with.
type Runtime struct {
	Config  *config.Config
	Logger  *logger.Logger
	Scanner *usecase.Scanner
	Source  *marketdata.HTTPProvider
	Store   *internalrepo.CHPriceStore
	Server  *xhttp.Server
}

func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideClickHouseClient connects when a host is configured; otherwise it returns nil.
func ProvideClickHouseClient(cfg *config.Config, l *logger.Logger) (*pkgch.Client, func(), error) {
	if cfg.ClickHouse.Host == "" {
		return nil, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	l.Info("clickhouse connected", logger.String("host", cfg.ClickHouse.Host), logger.String("db", cfg.ClickHouse.Database))
	return client, func() {
		if err := client.Close(); err != nil {
			l.Warn("clickhouse close error", logger.Error(err))
		}
	}, nil
}

// ProvidePriceStore creates the daily-bar table on first use. Nil without a client.
func ProvidePriceStore(client *pkgch.Client, cfg *config.Config, l *logger.Logger) (*internalrepo.CHPriceStore, error) {
	if client == nil {
		return nil, nil
	}
	store, err := internalrepo.NewCHPriceStore(client, cfg.History.Table)
	if err != nil {
		return nil, fmt.Errorf("price store: %w", err)
	}
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, store.Schema()); err != nil {
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideCache returns nil when caching is disabled.
func ProvideCache(cfg *config.Config, l *logger.Logger) (cache.Service, func(), error) {
	if !cfg.Cache.Enabled {
		return nil, func() {}, nil
	}
	newRedis := func() (*cache.RedisCache, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			Prefix:   cfg.Cache.Prefix,
		})
	}

	var svc cache.Service
	switch cfg.Cache.Backend {
	case "redis":
		rc, err := newRedis()
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		svc = rc
	case "layered":
		rc, err := newRedis()
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		svc = cache.NewLayeredCache(cache.NewMemoryCache(), rc, time.Minute)
	default:
		svc = cache.NewMemoryCache(cache.WithMemoryMaxSize(5000))
	}
	l.Info("market data cache enabled", logger.String("backend", cfg.Cache.Backend), logger.Duration("ttl_ms", cfg.Cache.TTL))
	return svc, func() {
		if err := svc.Close(); err != nil {
			l.Warn("cache close error", logger.Error(err))
		}
	}, nil
}

func ProvideHTTPProvider(cfg *config.Config, l *logger.Logger) *marketdata.HTTPProvider {
	return marketdata.NewHTTPProvider(cfg.MarketData, l)
}

// ProvideMarketData stacks the gateway, the optional ClickHouse history and the optional cache.
func ProvideMarketData(cfg *config.Config, l *logger.Logger, src *marketdata.HTTPProvider, store *internalrepo.CHPriceStore, c cache.Service) repository.MarketData {
	var md repository.MarketData = src
	if cfg.History.Source == "clickhouse" && store != nil {
		md = marketdata.NewHistoryOverlay(md, store, l)
	}
	if c != nil {
		md = marketdata.NewCachedProvider(md, c, cfg.Cache.TTL, l)
	}
	return md
}

// ProvideKafkaProducer returns nil when publishing is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher wraps the producer, or falls back to a no-op publisher.
func ProvidePublisher(producer *pkgkafka.Producer, l *logger.Logger) (repository.CandidatePublisher, func()) {
	var pub repository.CandidatePublisher = internalrepo.NopPublisher{}
	if producer != nil {
		pub = internalrepo.NewKafkaCandidatePublisher(producer)
	}
	return pub, func() {
		if err := pub.Close(); err != nil {
			l.Warn("publisher close error", logger.Error(err))
		}
	}
}

func ProvideSectorTable(cfg *config.Config) *sector.Table {
	return sector.NewTable(cfg.Sector.Symbols)
}

// ProvideScannerConfig maps the YAML sections onto the scanner's knobs.
func ProvideScannerConfig(cfg *config.Config) usecase.ScannerConfig {
	sc := cfg.Scanner
	basic := pattern.BasicConfig()
	basic.Horizons = cfg.Pattern.Horizons
	return usecase.ScannerConfig{
		Watchlist: sc.Watchlist,
		Benchmark: sc.Benchmark,
		Lookback:  repository.NormalizeLookback(sc.Lookback),
		Variant:   models.Variant(sc.Variant),
		Filter: ranking.Filter{
			MinPremium:        sc.MinPremium,
			MinVolume:         sc.MinVolume,
			MinScore:          sc.MinScore,
			MinAttractiveness: sc.MinAttractiveness,
		},
		MaxDaysToExpiry:  sc.MaxDaysToExpiry,
		StrikeWindow:     sc.StrikeWindow,
		PerTickerTopK:    sc.PerTickerTopK,
		GlobalTopN:       sc.GlobalTopN,
		Workers:          sc.Workers,
		Seed:             sc.Seed,
		Samples:          cfg.Confidence.Samples,
		DailyVolWindow:   cfg.Confidence.DailyVolWin,
		DividendFallback: cfg.MarketData.DividendFallback,
		SectorWindow:     cfg.Sector.Window,
		SectorMinWindow:  cfg.Sector.MinWindow,
		Regime: regime.Config{
			Benchmark:         sc.Benchmark,
			ReturnWindow:      cfg.Regime.ReturnWindow,
			VolWindow:         cfg.Regime.VolWindow,
			VIXFallbackWindow: cfg.Regime.VIXFallbackWindow,
			DefaultVIX:        cfg.Regime.DefaultVIX,
			DefaultVol:        cfg.Regime.DefaultVol,
		},
		FullPattern: pattern.Config{
			Neighbors:      cfg.Pattern.Neighbors,
			ReservedWindow: cfg.Pattern.ReservedWindow,
			Horizons:       cfg.Pattern.Horizons,
			Features:       pattern.FullFeatures,
		},
		BasicPattern: basic,
		SizingPolicy: cfg.Sizing.Policy,
	}
}

func ProvideScanner(
	cfg *config.Config,
	sc usecase.ScannerConfig,
	md repository.MarketData,
	table *sector.Table,
	m repository.Metrics,
	pub repository.CandidatePublisher,
	l *logger.Logger,
) *usecase.Scanner {
	return usecase.NewScanner(sc, md, table,
		sizing.NewKellyPolicy(cfg.Sizing.RiskBudget),
		sizing.NewAllocationPolicy(cfg.Sizing.PortfolioValue, cfg.Sizing.EquityAllocation, cfg.Sizing.CashAllocation, cfg.Sizing.MaxContracts),
		usecase.WithLogger(l),
		usecase.WithMetrics(m),
		usecase.WithPublisher(pub),
	)
}

func ProvideScanHandler(l *logger.Logger, s *usecase.Scanner) *api.ScanEchoHandler {
	return api.NewScanEchoHandler(l, s)
}

func ProvideHTTPServer(cfg *config.Config, l *logger.Logger, h *api.ScanEchoHandler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer([]xhttp.Handler{h},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(true),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}
