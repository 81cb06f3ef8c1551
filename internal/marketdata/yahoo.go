package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/wonny/tradex/pkg/httputil"
	"github.com/wonny/tradex/pkg/logger"
)

const yahooBaseURL = "https://finance.yahoo.com"

// YahooFetcher scrapes the quote page. Keyless fallback for when the
// Finnhub quota or key is gone; markup changes will break it, which is
// acceptable for a fallback.
type YahooFetcher struct {
	http    *httputil.Client
	baseURL string
}

// NewYahooFetcher creates the Yahoo scraping provider.
func NewYahooFetcher(log *logger.Logger) *YahooFetcher {
	httpClient := httputil.NewWithTimeout(log, 10*time.Second).
		WithHeader("User-Agent", "Mozilla/5.0 (compatible; tradex/1.0)")

	return &YahooFetcher{
		http:    httpClient,
		baseURL: yahooBaseURL,
	}
}

func (y *YahooFetcher) Name() string { return "yahoo" }

// Quote scrapes the regular market price off the symbol's quote page.
func (y *YahooFetcher) Quote(ctx context.Context, symbol string) (*Quote, error) {
	reqURL := fmt.Sprintf("%s/quote/%s", y.baseURL, symbol)

	resp, err := y.http.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("yahoo quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo quote returned %d for %s", resp.StatusCode, symbol)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse yahoo page: %w", err)
	}

	selector := fmt.Sprintf(`fin-streamer[data-symbol=%q][data-field="regularMarketPrice"]`, symbol)
	node := doc.Find(selector).First()
	if node.Length() == 0 {
		return nil, fmt.Errorf("price element not found for %s", symbol)
	}

	raw, ok := node.Attr("data-value")
	if !ok || raw == "" {
		raw = strings.TrimSpace(node.Text())
	}
	raw = strings.ReplaceAll(raw, ",", "")

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q for %s: %w", raw, symbol, err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("yahoo returned non-positive price for %s", symbol)
	}

	return &Quote{
		Symbol: symbol,
		Price:  price,
		Source: y.Name(),
		AsOf:   time.Now().UTC(),
	}, nil
}
