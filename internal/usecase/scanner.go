package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"OptEdge/internal/domain/models"
	domrepo "OptEdge/internal/domain/repository"
	domsvc "OptEdge/internal/domain/service"
	"OptEdge/internal/services/confidence"
	"OptEdge/internal/services/features"
	"OptEdge/internal/services/pattern"
	"OptEdge/internal/services/ranking"
	"OptEdge/internal/services/regime"
	"OptEdge/internal/services/sector"
	"OptEdge/internal/services/sizing"
	"OptEdge/pkg/logger"
	"OptEdge/pkg/util"
)

// Sizing policy names accepted by ScannerConfig.SizingPolicy.
const (
	SizingKelly      = "kelly"
	SizingAllocation = "allocation"
)

// ErrEmptyWatchlist is returned when neither the request nor the config names a ticker.
var ErrEmptyWatchlist = errors.New("scan: empty watch list")

// ScannerConfig gathers every knob of a batch run.
type ScannerConfig struct {
	Watchlist       []string
	Benchmark       string
	Lookback        domrepo.Lookback
	Variant         models.Variant
	Filter          ranking.Filter
	MaxDaysToExpiry int
	StrikeWindow    float64
	PerTickerTopK   int
	GlobalTopN      int
	Workers         int
	Seed            uint64
	Samples         int
	DailyVolWindow  int
	// DividendFallback is used when the provider cannot supply a dividend yield.
	DividendFallback float64
	SectorWindow     int
	SectorMinWindow  int
	Regime           regime.Config
	FullPattern      pattern.Config
	BasicPattern     pattern.Config
	SizingPolicy     string
}

// DefaultScannerConfig returns the values of an empty config file.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		Benchmark:       "SPY",
		Lookback:        domrepo.Lookback1y,
		Variant:         models.VariantFull,
		Filter:          ranking.Filter{MinPremium: 0.5, MinVolume: 10, MinScore: 0.55, MinAttractiveness: 0.05},
		MaxDaysToExpiry: 45,
		StrikeWindow:    0.10,
		PerTickerTopK:   3,
		GlobalTopN:      10,
		Workers:         1,
		Seed:            42,
		Samples:         confidence.DefaultSamples,
		DailyVolWindow:  20,
		SectorWindow:    20,
		SectorMinWindow: 5,
		Regime:          regime.DefaultConfig(),
		FullPattern:     pattern.DefaultConfig(),
		BasicPattern:    pattern.BasicConfig(),
	}
}

// ScanParams narrows a single run. Zero values fall back to ScannerConfig.
type ScanParams struct {
	Tickers       []string
	Variant       models.Variant
	PerTickerTopK int
	TopN          int
}

// Scanner runs regime detection, then sector strength, pattern matching,
// confidence, sizing and ranking for every instrument of a watch list.
type Scanner struct {
	cfg       ScannerConfig
	data      domrepo.MarketData
	sectors   *sector.Table
	kelly     *sizing.KellyPolicy
	alloc     *sizing.AllocationPolicy
	publisher domrepo.CandidatePublisher
	metrics   domrepo.Metrics
	log       *logger.Logger
	now       func() time.Time
	newRunID  func() string
}

type ScannerOption func(*Scanner)

func WithClock(now func() time.Time) ScannerOption { return func(s *Scanner) { s.now = now } }

func WithRunID(gen func() string) ScannerOption { return func(s *Scanner) { s.newRunID = gen } }

func WithLogger(l *logger.Logger) ScannerOption { return func(s *Scanner) { s.log = l } }

func WithMetrics(m domrepo.Metrics) ScannerOption { return func(s *Scanner) { s.metrics = m } }

func WithPublisher(p domrepo.CandidatePublisher) ScannerOption {
	return func(s *Scanner) { s.publisher = p }
}

func NewScanner(cfg ScannerConfig, data domrepo.MarketData, sectors *sector.Table, kelly *sizing.KellyPolicy, alloc *sizing.AllocationPolicy, opts ...ScannerOption) *Scanner {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if sectors == nil {
		sectors = sector.NewTable(nil)
	}
	if kelly == nil {
		kelly = sizing.NewKellyPolicy(10000)
	}
	if alloc == nil {
		alloc = sizing.NewAllocationPolicy(100000, 0.6, 0.4, 5)
	}
	s := &Scanner{
		cfg:      cfg,
		data:     data,
		sectors:  sectors,
		kelly:    kelly,
		alloc:    alloc,
		metrics:  nopMetrics{},
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// run holds the per-run state shared by all instruments.
type run struct {
	asOf    time.Time
	variant models.Variant
	regime  models.MarketRegime
	series  *sector.SeriesCache
	sector  *sector.Estimator
	matcher *pattern.Matcher
	ranker  *ranking.Ranker
	policy  domsvc.SizingPolicy
	topK    int
}

// Universe lists every symbol a run over tickers reads history for: the
// tickers, the benchmark and the sector ETFs they map to.
func (s *Scanner) Universe(tickers []string) []string {
	tickers = normalizeTickers(tickers)
	if len(tickers) == 0 {
		tickers = normalizeTickers(s.cfg.Watchlist)
	}
	all := append([]string{}, tickers...)
	all = append(all, s.cfg.Benchmark)
	for _, t := range tickers {
		if sec, ok := s.sectors.Lookup(t); ok {
			if etf, ok := sec.ETF(); ok {
				all = append(all, etf)
			}
		}
	}
	return normalizeTickers(all)
}

// Regime classifies the market without scanning any instrument.
func (s *Scanner) Regime(ctx context.Context) models.MarketRegime {
	series := sector.NewSeriesCache(s.data, s.cfg.Lookback)
	r := s.classifier(series).Detect(ctx)
	s.metrics.RecordRegime(string(r.Label))
	return r
}

// Run executes one batch. Instrument failures are recorded as skips, so the
// returned error is non-nil only for an empty watch list or a cancelled context.
func (s *Scanner) Run(ctx context.Context, p ScanParams) (*models.ScanResult, error) {
	start := time.Now()
	tickers := normalizeTickers(p.Tickers)
	if len(tickers) == 0 {
		tickers = normalizeTickers(s.cfg.Watchlist)
	}
	if len(tickers) == 0 {
		return nil, ErrEmptyWatchlist
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	rn := s.newRun(p)
	rn.regime = s.classifier(rn.series).Detect(ctx)
	s.metrics.RecordRegime(string(rn.regime.Label))
	s.metrics.RecordLatency("regime", time.Since(start).Seconds())

	res := &models.ScanResult{
		RunID:   s.newRunID(),
		AsOf:    rn.asOf,
		Variant: rn.variant,
		Regime:  rn.regime,
		Tickers: s.scanAll(ctx, rn, tickers),
	}

	lists := make([][]models.OptionCandidate, 0, len(res.Tickers))
	for _, tr := range res.Tickers {
		lists = append(lists, tr.Candidates)
	}
	topN := p.TopN
	if topN < 1 {
		topN = s.cfg.GlobalTopN
	}
	res.Top = rn.ranker.TopGlobal(lists, topN)
	res.Duration = time.Since(start)
	s.metrics.RecordLatency("scan", res.Duration.Seconds())

	if s.publisher != nil && len(res.Top) > 0 {
		if err := s.publisher.PublishCandidates(ctx, res.RunID, res.Regime, res.Top); err != nil {
			s.metrics.RecordError("publish")
			s.log.Error("Failed to publish candidates", logger.String("run_id", res.RunID), logger.Error(err))
		}
	}

	s.log.Info("Scan finished",
		logger.String("run_id", res.RunID),
		logger.String("variant", string(res.Variant)),
		logger.String("regime", string(res.Regime.Label)),
		logger.Float("vix", res.Regime.VolatilityIndex),
		logger.Int("tickers", len(tickers)),
		logger.Int("top", len(res.Top)),
		logger.Duration("duration_ms", res.Duration),
	)
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}

func (s *Scanner) newRun(p ScanParams) *run {
	variant := p.Variant
	if variant == "" {
		variant = s.cfg.Variant
	}
	if variant != models.VariantBasic {
		variant = models.VariantFull
	}
	topK := p.PerTickerTopK
	if topK < 1 {
		topK = s.cfg.PerTickerTopK
	}

	series := sector.NewSeriesCache(s.data, s.cfg.Lookback)
	rn := &run{
		asOf:    s.now(),
		variant: variant,
		series:  series,
		sector: sector.NewEstimator(s.sectors, series, s.cfg.Benchmark,
			sector.WithWindow(s.cfg.SectorWindow, s.cfg.SectorMinWindow),
			sector.WithLogger(s.log)),
		ranker: ranking.NewRanker(s.cfg.Filter),
		policy: s.policyFor(variant),
		topK:   topK,
	}
	if variant == models.VariantBasic {
		rn.matcher = pattern.NewMatcher(s.cfg.BasicPattern)
	} else {
		rn.matcher = pattern.NewMatcher(s.cfg.FullPattern)
	}
	return rn
}

func (s *Scanner) classifier(series *sector.SeriesCache) *regime.Classifier {
	cfg := s.cfg.Regime
	if cfg.Benchmark == "" {
		cfg.Benchmark = s.cfg.Benchmark
	}
	return regime.NewClassifier(cfg, s.data, series, regime.WithClock(s.now), regime.WithLogger(s.log))
}

// policyFor picks the configured sizing policy, else Kelly for full and allocation for basic.
func (s *Scanner) policyFor(v models.Variant) domsvc.SizingPolicy {
	switch s.cfg.SizingPolicy {
	case SizingKelly:
		return s.kelly
	case SizingAllocation:
		return s.alloc
	}
	if v == models.VariantBasic {
		return s.alloc
	}
	return s.kelly
}

// scanAll fans instruments out to the worker pool. Results keep input order.
func (s *Scanner) scanAll(ctx context.Context, rn *run, tickers []string) []models.TickerResult {
	results := make([]models.TickerResult, len(tickers))
	workers := min(s.cfg.Workers, len(tickers))

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.scanTicker(ctx, rn, tickers[i])
			}
		}()
	}
	for i := range tickers {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func (s *Scanner) scanTicker(ctx context.Context, rn *run, ticker string) models.TickerResult {
	start := time.Now()
	tr := models.TickerResult{Ticker: ticker, Sector: rn.sector.Sector(ticker), Candidates: []models.OptionCandidate{}}
	skip := func(err error) models.TickerResult {
		tr.SkipReason = models.SkipReason(err)
		s.metrics.RecordSkip(tr.SkipReason)
		s.log.Warn("Skipping ticker", logger.String("ticker", ticker), logger.String("reason", tr.SkipReason), logger.Error(err))
		return tr
	}
	if err := ctx.Err(); err != nil {
		return skip(errors.Join(models.ErrDataUnavailable, err))
	}

	points, err := rn.series.Points(ctx, ticker)
	if err != nil {
		return skip(err)
	}
	closes := models.Closes(points)
	tr.Spot = closes[len(closes)-1]
	if tr.Spot <= 0 {
		return skip(fmt.Errorf("spot %s: %w", ticker, models.ErrDataUnavailable))
	}

	strength, err := rn.sector.Strength(ctx, ticker)
	if err != nil {
		s.log.Debug("Sector strength degraded", logger.String("ticker", ticker), logger.Error(err))
	}
	tr.SectorStrength = strength

	outcomes, err := rn.matcher.Match(points)
	if err != nil {
		return skip(err)
	}
	tr.Outcomes = outcomes

	dailyVol, _ := features.DailyVolatility(features.Returns(closes), s.cfg.DailyVolWindow)

	expiries, err := s.data.Expirations(ctx, ticker)
	if err != nil {
		return skip(err)
	}
	expiries = s.eligibleExpiries(rn.asOf, expiries)

	var dividend float64
	if rn.variant == models.VariantBasic {
		if dividend, err = s.data.DividendYield(ctx, ticker); err != nil {
			s.log.Debug("Dividend yield unavailable", logger.String("ticker", ticker), logger.Error(err))
			dividend = s.cfg.DividendFallback
		}
	}

	sc := &tickerScorer{
		run:      rn,
		ticker:   ticker,
		sector:   tr.Sector,
		spot:     tr.Spot,
		strength: strength,
		dailyVol: dailyVol,
		dividend: dividend,
		outcomes: outcomes,
		mc:       confidence.NewEstimator(s.cfg.Samples, tickerRand(s.cfg.Seed, ticker)),
	}

	var scored []models.OptionCandidate
	for _, exp := range expiries {
		chain, err := s.data.OptionChain(ctx, ticker, exp)
		if err != nil {
			s.log.Warn("Option chain unavailable", logger.String("ticker", ticker),
				logger.String("expiry", exp.Format(time.DateOnly)), logger.Error(err))
			continue
		}
		dte := util.DaysToExpiry(rn.asOf, exp)
		for _, ct := range models.ContractTypes {
			for _, oc := range chain.Contracts(ct) {
				if !s.eligibleContract(tr.Spot, oc) {
					continue
				}
				c, err := sc.score(ct, oc, exp, dte)
				if err != nil {
					if errors.Is(err, models.ErrComputation) {
						s.metrics.RecordError("computation")
					}
					s.log.Debug("Dropping candidate", logger.String("ticker", ticker),
						logger.String("type", string(ct)), logger.Float("strike", oc.Strike), logger.Error(err))
					continue
				}
				scored = append(scored, c)
			}
		}
	}

	tr.Candidates = rn.ranker.TopPerTicker(scored, rn.topK)
	s.metrics.RecordCandidates(ticker, len(tr.Candidates))
	s.metrics.RecordLatency("ticker", time.Since(start).Seconds())
	s.log.Debug("Ticker scanned", logger.String("ticker", ticker),
		logger.Int("scored", len(scored)), logger.Int("kept", len(tr.Candidates)))
	return tr
}

// eligibleExpiries keeps 1 <= dte <= MaxDaysToExpiry, one per calendar date, ascending.
func (s *Scanner) eligibleExpiries(asOf time.Time, expiries []time.Time) []time.Time {
	out := make([]time.Time, 0, len(expiries))
	seen := make(map[string]struct{}, len(expiries))
	for _, e := range expiries {
		dte := util.DaysToExpiry(asOf, e)
		if dte < 1 || dte > s.cfg.MaxDaysToExpiry {
			continue
		}
		day := e.Format(time.DateOnly)
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (s *Scanner) eligibleContract(spot float64, oc models.OptionContract) bool {
	if oc.LastPrice <= 0 || oc.Strike <= 0 {
		return false
	}
	d := (oc.Strike - spot) / spot
	return d >= -s.cfg.StrikeWindow && d <= s.cfg.StrikeWindow
}

// tickerScorer scores the contracts of one instrument. It owns that
// instrument's random stream, so it is confined to one goroutine.
type tickerScorer struct {
	run      *run
	ticker   string
	sector   string
	spot     float64
	strength float64
	dailyVol float64
	dividend float64
	outcomes models.Outcomes
	mc       *confidence.Estimator
}

// score turns one contract into a sized candidate. A panic in any stage drops
// only this contract.
func (t *tickerScorer) score(ct models.ContractType, oc models.OptionContract, exp time.Time, dte int) (c models.OptionCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("score %s %s %.2f: %v: %w", t.ticker, ct, oc.Strike, r, models.ErrComputation)
		}
	}()

	c = models.OptionCandidate{
		Ticker:            t.ticker,
		Sector:            t.sector,
		ContractType:      ct,
		Strike:            oc.Strike,
		Spot:              t.spot,
		Premium:           oc.LastPrice,
		DaysToExpiry:      dte,
		ExpiryDate:        exp,
		ImpliedVolatility: oc.ImpliedVolatility,
		Volume:            oc.Volume,
		Variant:           t.run.variant,
	}

	var ok bool
	if t.run.variant == models.VariantBasic {
		c.DividendYield = t.dividend
		c.Confidence, c.Attractiveness, c.Breakdown, ok = confidence.BasicScorer{}.Score(confidence.BasicInput{
			ContractType:  ct,
			Regime:        t.run.regime.Label,
			DaysToExpiry:  dte,
			Strike:        oc.Strike,
			Premium:       oc.LastPrice,
			DividendYield: t.dividend,
			Outcomes:      t.outcomes,
		})
	} else {
		c.Confidence, c.Breakdown, ok = t.mc.Estimate(domsvc.ConfidenceInput{
			Spot:           t.spot,
			Strike:         oc.Strike,
			ContractType:   ct,
			DaysToExpiry:   dte,
			Regime:         t.run.regime.Label,
			SectorStrength: t.strength,
			DailyVol:       t.dailyVol,
			Outcomes:       t.outcomes,
		})
	}
	if !ok {
		return models.OptionCandidate{}, fmt.Errorf("score %s %s %.2f: %w", t.ticker, ct, oc.Strike, models.ErrNoSignal)
	}

	c.SuggestedSize = t.run.policy.Size(domsvc.SizingInput{
		Confidence:   c.Confidence,
		ContractType: ct,
		Spot:         t.spot,
		Strike:       oc.Strike,
		Premium:      oc.LastPrice,
	})
	return c, nil
}

// tickerRand derives an instrument's stream from the run seed and its symbol, so
// output does not depend on worker scheduling.
func tickerRand(seed uint64, ticker string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(ticker))
	return rand.New(rand.NewPCG(seed, h.Sum64()))
}

func normalizeTickers(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

type nopMetrics struct{}

func (nopMetrics) RecordCandidates(string, int)  {}
func (nopMetrics) RecordSkip(string)             {}
func (nopMetrics) RecordRegime(string)           {}
func (nopMetrics) RecordLatency(string, float64) {}
func (nopMetrics) RecordError(string)            {}

var _ domrepo.Metrics = nopMetrics{}
