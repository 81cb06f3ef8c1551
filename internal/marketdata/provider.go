package marketdata

import (
	"context"
	"fmt"

	"github.com/wonny/tradex/pkg/logger"
	"github.com/wonny/tradex/pkg/redis"
)

// Provider chains fetchers with a two-level cache: a short fresh
// window to absorb repeated sizing lookups, and a long stale window
// served only when every upstream fails.
type Provider struct {
	fetchers []Fetcher
	cache    *redis.Cache
	log      *logger.Logger
}

// NewProvider creates a provider over the given fetchers, tried in
// order.
func NewProvider(cache *redis.Cache, log *logger.Logger, fetchers ...Fetcher) *Provider {
	return &Provider{
		fetchers: fetchers,
		cache:    cache,
		log:      log,
	}
}

// Quote resolves a reference price for symbol.
func (p *Provider) Quote(ctx context.Context, symbol string) (*Quote, error) {
	var cached Quote
	if hit, _ := p.cache.Get(ctx, redis.QuoteKey(symbol), &cached); hit {
		return &cached, nil
	}

	var lastErr error
	for _, f := range p.fetchers {
		q, err := f.Quote(ctx, symbol)
		if err != nil {
			lastErr = err
			p.log.WithError(err).WithFields(map[string]interface{}{
				"provider": f.Name(),
				"symbol":   symbol,
			}).Warn("quote provider failed")
			continue
		}

		if err := p.cache.Set(ctx, redis.QuoteKey(symbol), q, redis.TTLQuote); err != nil {
			p.log.WithError(err).Warn("failed to cache quote")
		}
		if err := p.cache.Set(ctx, redis.StaleQuoteKey(symbol), q, redis.TTLStale); err != nil {
			p.log.WithError(err).Warn("failed to cache stale quote")
		}

		return q, nil
	}

	// all providers down: serve the stale copy if one exists
	var stale Quote
	if hit, _ := p.cache.Get(ctx, redis.StaleQuoteKey(symbol), &stale); hit {
		stale.Stale = true
		p.log.WithField("symbol", symbol).Warn("serving stale quote")
		return &stale, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no quote providers configured")
	}
	return nil, fmt.Errorf("no quote available for %s: %w", symbol, lastErr)
}
