// Package ingest pulls posts from the monitored social feeds and
// normalizes them into contracts.Post.
package ingest

import (
	"context"

	"github.com/wonny/tradex/internal/contracts"
)

// Source is a feed of posts for one monitored account. Fetch returns
// the newest posts first; overlap across calls is expected and the
// gatekeeper drops the duplicates.
type Source interface {
	Name() string
	Fetch(ctx context.Context, account string, limit int) ([]contracts.Post, error)
}
