package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"OptEdge/internal/domain/models"
	domrepo "OptEdge/internal/domain/repository"
	"OptEdge/pkg/config"
	xhttp "OptEdge/pkg/http"
	"OptEdge/pkg/logger"
)

const retryAttempts = 3

// HTTPProvider reads market data from the quotes gateway. Every call is bounded by
// the client timeout, the rate limiter and the circuit breaker.
type HTTPProvider struct {
	baseURL string
	vixKey  string
	client  *xhttp.Client
	log     *logger.Logger
}

type historyResponse struct {
	Points []struct {
		Date  string  `json:"date"`
		Close float64 `json:"close"`
	} `json:"points"`
}

type vixResponse struct {
	Level float64 `json:"level"`
}

type expirationsResponse struct {
	Expirations []string `json:"expirations"`
}

type chainResponse struct {
	Calls []models.OptionContract `json:"calls"`
	Puts  []models.OptionContract `json:"puts"`
}

type dividendResponse struct {
	Yield float64 `json:"yield"`
}

// NewHTTPProvider builds the provider from the market_data config section.
func NewHTTPProvider(cfg config.MarketData, l *logger.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		vixKey:  cfg.VolatilityIndex,
		client: xhttp.NewClient(
			xhttp.WithTimeout(cfg.Timeout),
			xhttp.WithRateLimit(cfg.RequestsPerSec, cfg.Burst),
			xhttp.WithBreaker("market-data", cfg.BreakerFailures, cfg.BreakerOpenFor),
		),
		log: l,
	}
}

func (p *HTTPProvider) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	if p.baseURL == "" {
		return fmt.Errorf("market data base url not configured: %w", models.ErrDataUnavailable)
	}
	err := p.client.GetJSONWithRetry(ctx, p.baseURL+path, query, dest, retryAttempts)
	if err != nil {
		p.log.Debug("market data request failed", logger.String("path", path), logger.Error(err))
		return fmt.Errorf("get %s: %w", path, errors.Join(models.ErrDataUnavailable, err))
	}
	return nil
}

func (p *HTTPProvider) PriceHistory(ctx context.Context, symbol string, lookback domrepo.Lookback) ([]models.PricePoint, error) {
	var resp historyResponse
	q := url.Values{"period": {string(domrepo.NormalizeLookback(string(lookback)))}}
	if err := p.get(ctx, "/history/"+url.PathEscape(symbol), q, &resp); err != nil {
		return nil, err
	}
	out := make([]models.PricePoint, 0, len(resp.Points))
	for _, pt := range resp.Points {
		d, err := parseDate(pt.Date)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", symbol, err)
		}
		out = append(out, models.PricePoint{Date: d, Close: pt.Close})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (p *HTTPProvider) VolatilityIndexLevel(ctx context.Context) (float64, error) {
	var resp vixResponse
	if err := p.get(ctx, "/vix", url.Values{"symbol": {p.vixKey}}, &resp); err != nil {
		return 0, err
	}
	if resp.Level <= 0 {
		return 0, fmt.Errorf("vix level %v: %w", resp.Level, models.ErrDataUnavailable)
	}
	return resp.Level, nil
}

func (p *HTTPProvider) Expirations(ctx context.Context, symbol string) ([]time.Time, error) {
	var resp expirationsResponse
	if err := p.get(ctx, "/options/"+url.PathEscape(symbol)+"/expirations", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(resp.Expirations))
	for _, s := range resp.Expirations {
		d, err := parseDate(s)
		if err != nil {
			p.log.Warn("skipping malformed expiry", logger.String("ticker", symbol), logger.String("expiry", s))
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (p *HTTPProvider) OptionChain(ctx context.Context, symbol string, expiry time.Time) (models.OptionChain, error) {
	var resp chainResponse
	q := url.Values{"expiry": {expiry.Format(time.DateOnly)}}
	if err := p.get(ctx, "/options/"+url.PathEscape(symbol), q, &resp); err != nil {
		return models.OptionChain{}, err
	}
	return models.OptionChain{Expiry: expiry, Calls: resp.Calls, Puts: resp.Puts}, nil
}

func (p *HTTPProvider) DividendYield(ctx context.Context, symbol string) (float64, error) {
	var resp dividendResponse
	if err := p.get(ctx, "/dividend/"+url.PathEscape(symbol), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Yield, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

var _ domrepo.MarketData = (*HTTPProvider)(nil)
