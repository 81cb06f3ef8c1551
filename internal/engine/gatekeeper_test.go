package engine

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wonny/tradex/internal/contracts"
)

func TestGatekeeper_AdmitPost(t *testing.T) {
	g := NewGatekeeper(time.Hour)

	assert.NoError(t, g.AdmitPost("tw:1"))
	assert.NoError(t, g.AdmitPost("tw:2"))

	err := g.AdmitPost("tw:1")
	assert.True(t, errors.Is(err, contracts.ErrDuplicatePost))
	assert.Equal(t, 2, g.Size())
}

func TestGatekeeper_ForgetReopensAdmission(t *testing.T) {
	g := NewGatekeeper(time.Hour)

	assert.NoError(t, g.AdmitPost("tw:1"))
	assert.True(t, errors.Is(g.AdmitPost("tw:1"), contracts.ErrDuplicatePost))

	// scoring failed: roll the admission back so the post can be
	// scored on a later cycle
	g.Forget("tw:1")
	assert.NoError(t, g.AdmitPost("tw:1"))
	assert.Equal(t, 1, g.Size())

	// forgetting an unknown id is a no-op
	g.Forget("tw:unknown")
	assert.Equal(t, 1, g.Size())
}

func TestGatekeeper_Seed(t *testing.T) {
	g := NewGatekeeper(time.Hour)
	g.Seed([]string{"tw:1", "tw:2", "tw:3"})

	assert.True(t, errors.Is(g.AdmitPost("tw:2"), contracts.ErrDuplicatePost))
	assert.NoError(t, g.AdmitPost("tw:4"))
}

func TestGatekeeper_AdmitWindow(t *testing.T) {
	g := NewGatekeeper(time.Hour)

	assert.NoError(t, g.AdmitWindow("TSLA", "2026-08-31T11"))
	assert.True(t, errors.Is(g.AdmitWindow("TSLA", "2026-08-31T11"), contracts.ErrDuplicateWindowDecision))

	// a new window for the same symbol is fine
	assert.NoError(t, g.AdmitWindow("TSLA", "2026-08-31T12"))

	// same window for another symbol is independent
	assert.NoError(t, g.AdmitWindow("AAPL", "2026-08-31T12"))
}

func TestGatekeeper_Cleanup(t *testing.T) {
	g := NewGatekeeper(10 * time.Millisecond)
	g.Seed([]string{"old:1", "old:2"})

	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, g.AdmitPost("new:1"))

	removed := g.Cleanup()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, g.Size())

	// expired ids may be admitted again; the database constraint is
	// the durable backstop
	assert.NoError(t, g.AdmitPost("old:1"))
}

func TestGatekeeper_ConcurrentAdmit(t *testing.T) {
	g := NewGatekeeper(time.Hour)

	var wg sync.WaitGroup
	admitted := make(chan string, 1000)

	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := fmt.Sprintf("tw:%d", i)
				if g.AdmitPost(id) == nil {
					admitted <- id
				}
			}
		}()
	}
	wg.Wait()
	close(admitted)

	// each id admitted exactly once across all workers
	seen := make(map[string]int)
	for id := range admitted {
		seen[id]++
	}
	assert.Len(t, seen, 100)
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %s admitted %d times", id, n)
	}
}
