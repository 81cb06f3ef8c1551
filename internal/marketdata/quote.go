// Package marketdata resolves reference prices for sizing. Providers
// are tried in order; a cached stale quote is the last resort so a
// data outage degrades sizing accuracy instead of halting the cycle.
package marketdata

import (
	"context"
	"time"
)

// Quote is a reference price for one symbol.
type Quote struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Source string    `json:"source"` // provider that produced it
	AsOf   time.Time `json:"as_of"`
	Stale  bool      `json:"stale"` // served from the long-lived cache
}

// Fetcher fetches a live quote from one upstream provider.
type Fetcher interface {
	Name() string
	Quote(ctx context.Context, symbol string) (*Quote, error)
}
