package engine

import (
	"sync"
	"time"

	"github.com/wonny/tradex/internal/contracts"
)

// Gatekeeper enforces the pipeline's two idempotency rules: a post is
// scored at most once, and a (symbol, window) pair produces at most
// one decision. It is the in-memory first line; the database unique
// constraints are the durable backstop behind it.
type Gatekeeper struct {
	mu sync.Mutex

	// source post id -> when it was admitted
	seenPosts map[string]time.Time

	// symbol -> last decided window id
	decidedWindows map[string]string

	ttl time.Duration
}

// NewGatekeeper creates a gatekeeper. ttl bounds how long admitted
// post ids are remembered; it must comfortably exceed the ingestion
// overlap between polling cycles.
func NewGatekeeper(ttl time.Duration) *Gatekeeper {
	return &Gatekeeper{
		seenPosts:      make(map[string]time.Time),
		decidedWindows: make(map[string]string),
		ttl:            ttl,
	}
}

// AdmitPost records the post id and reports whether it is new.
// Re-admitting a known id returns ErrDuplicatePost; the duplicate must
// be dropped before scoring, not after.
func (g *Gatekeeper) AdmitPost(sourceID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seenPosts[sourceID]; ok {
		return contracts.ErrDuplicatePost
	}
	g.seenPosts[sourceID] = time.Now()
	return nil
}

// Forget rolls back an admission. Called when a post's sentiment
// result could not be durably recorded: the post must stay eligible
// for scoring on a later cycle, otherwise it is dropped forever.
func (g *Gatekeeper) Forget(sourceID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seenPosts, sourceID)
}

// Seed preloads post ids already scored, so a restart does not
// re-score history the database remembers.
func (g *Gatekeeper) Seed(sourceIDs []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for _, id := range sourceIDs {
		g.seenPosts[id] = now
	}
}

// AdmitWindow records that symbol is being decided for windowID.
// A second admit for the same pair returns ErrDuplicateWindowDecision.
func (g *Gatekeeper) AdmitWindow(symbol, windowID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.decidedWindows[symbol] == windowID {
		return contracts.ErrDuplicateWindowDecision
	}
	g.decidedWindows[symbol] = windowID
	return nil
}

// Cleanup drops post ids older than the ttl. Run it periodically;
// the map grows unbounded otherwise.
func (g *Gatekeeper) Cleanup() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := time.Now().Add(-g.ttl)
	removed := 0
	for id, at := range g.seenPosts {
		if at.Before(cutoff) {
			delete(g.seenPosts, id)
			removed++
		}
	}
	return removed
}

// Size returns the number of remembered post ids.
func (g *Gatekeeper) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seenPosts)
}
