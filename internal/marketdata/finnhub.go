package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wonny/tradex/pkg/config"
	"github.com/wonny/tradex/pkg/httputil"
	"github.com/wonny/tradex/pkg/logger"
	"github.com/wonny/tradex/pkg/redis"
)

// FinnhubFetcher is the primary quote provider.
type FinnhubFetcher struct {
	http    *httputil.Client
	baseURL string
	apiKey  string
}

// NewFinnhubFetcher creates the Finnhub provider from config.
func NewFinnhubFetcher(cfg *config.Config, rc *redis.Client, log *logger.Logger) *FinnhubFetcher {
	httpClient := httputil.NewWithTimeout(log, 10*time.Second).
		WithRateLimiter(redis.NewRateLimiter(rc, "tradex"), redis.FinnhubRateLimit)

	return &FinnhubFetcher{
		http:    httpClient,
		baseURL: cfg.Finnhub.BaseURL,
		apiKey:  cfg.Finnhub.APIKey,
	}
}

func (f *FinnhubFetcher) Name() string { return "finnhub" }

type finnhubQuote struct {
	Current   float64 `json:"c"`
	Timestamp int64   `json:"t"`
}

// Quote fetches the current price for symbol.
func (f *FinnhubFetcher) Quote(ctx context.Context, symbol string) (*Quote, error) {
	reqURL := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		f.baseURL, url.QueryEscape(symbol), url.QueryEscape(f.apiKey))

	resp, err := f.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("finnhub quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub quote returned %d for %s", resp.StatusCode, symbol)
	}

	var q finnhubQuote
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return nil, fmt.Errorf("failed to decode finnhub quote: %w", err)
	}

	// Finnhub returns zeros for unknown symbols instead of an error
	if q.Current <= 0 {
		return nil, fmt.Errorf("finnhub returned no price for %s", symbol)
	}

	asOf := time.Unix(q.Timestamp, 0).UTC()
	if q.Timestamp == 0 {
		asOf = time.Now().UTC()
	}

	return &Quote{
		Symbol: symbol,
		Price:  q.Current,
		Source: f.Name(),
		AsOf:   asOf,
	}, nil
}
