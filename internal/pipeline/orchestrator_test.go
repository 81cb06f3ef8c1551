package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/tradex/internal/broker"
	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/internal/engine"
	"github.com/wonny/tradex/internal/ingest"
	"github.com/wonny/tradex/internal/marketdata"
	"github.com/wonny/tradex/internal/sentiment"
	"github.com/wonny/tradex/internal/strategyconfig"
	"github.com/wonny/tradex/pkg/config"
	"github.com/wonny/tradex/pkg/logger"
)

// fakeSource serves a fixed set of posts for any account.
type fakeSource struct {
	name  string
	posts []contracts.Post
	err   error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(_ context.Context, account string, _ int) ([]contracts.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]contracts.Post, 0, len(f.posts))
	for _, p := range f.posts {
		if p.Author == account {
			out = append(out, p)
		}
	}
	return out, nil
}

// memStores is an in-memory Stores implementation.
type memStores struct {
	mu        sync.Mutex
	posts     []contracts.Post
	results   []contracts.SentimentResult
	decisions []contracts.TradeDecision
	orders    []contracts.OrderSpec
	fills     []contracts.Fill

	decided map[string]bool // symbol|window
	scored  map[string]bool // post source id -> sentiment stored

	sentimentFailures int // sentiment saves to fail before recovering
}

func newMemStores() *memStores {
	return &memStores{
		decided: make(map[string]bool),
		scored:  make(map[string]bool),
	}
}

func (m *memStores) stores() Stores {
	return Stores{
		Posts:      (*memPostStore)(m),
		Sentiments: (*memSentimentStore)(m),
		Decisions:  (*memDecisionStore)(m),
		Orders:     (*memOrderStore)(m),
	}
}

type memPostStore memStores

func (m *memPostStore) Save(_ context.Context, post *contracts.Post) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.posts {
		if p.SourceID == post.SourceID {
			if m.scored[post.SourceID] {
				return 0, contracts.ErrDuplicatePost
			}
			// never scored: still eligible
			return int64(i + 1), nil
		}
	}
	m.posts = append(m.posts, *post)
	return int64(len(m.posts)), nil
}

type memSentimentStore memStores

func (m *memSentimentStore) Save(_ context.Context, res *contracts.SentimentResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sentimentFailures > 0 {
		m.sentimentFailures--
		return errors.New("sentiment store unavailable")
	}
	m.results = append(m.results, *res)
	m.scored[res.SourceID] = true
	return nil
}

type memDecisionStore memStores

func (m *memDecisionStore) Save(_ context.Context, d *contracts.TradeDecision) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := d.Symbol + "|" + d.WindowID
	if m.decided[key] {
		return 0, contracts.ErrDuplicateWindowDecision
	}
	m.decided[key] = true
	m.decisions = append(m.decisions, *d)
	return int64(len(m.decisions)), nil
}

type memOrderStore memStores

func (m *memOrderStore) SaveOrder(_ context.Context, o *contracts.OrderSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, *o)
	return nil
}

func (m *memOrderStore) SaveFill(_ context.Context, f *contracts.Fill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fills = append(m.fills, *f)
	return nil
}

// fixedQuotes always returns the same price.
type fixedQuotes struct {
	price float64
	err   error
}

func (f *fixedQuotes) Quote(_ context.Context, symbol string) (*marketdata.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &marketdata.Quote{Symbol: symbol, Price: f.price, Source: "fixed", AsOf: time.Now()}, nil
}

func bullishPosts(author string, n int) []contracts.Post {
	posts := make([]contracts.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, contracts.Post{
			SourceID:   fmt.Sprintf("tw:%s:%d", author, i),
			Author:     author,
			Text:       "great great progress, love this, absolutely amazing",
			CreatedAt:  time.Now().UTC(),
			IngestedAt: time.Now().UTC(),
		})
	}
	return posts
}

type fixture struct {
	orch   *Orchestrator
	stores *memStores
	broker *broker.PaperBroker
}

func newFixture(t *testing.T, strategy *strategyconfig.Config, posts []contracts.Post) *fixture {
	t.Helper()

	appCfg := &config.Config{
		Env:      "test",
		LogLevel: "error",
		Monitor: config.MonitorConfig{
			Accounts:        []string{"elonmusk", "Tesla"},
			PostsPerAccount: 5,
		},
	}
	log := logger.New(appCfg)

	scorer := sentiment.NewScorer(
		&sentiment.StaticModel{},
		sentiment.Weights{Lexicon: strategy.Sentiment.LexiconWeight, Model: strategy.Sentiment.ModelWeight},
		strategy.Sentiment.LabelThreshold,
		time.Second,
		log,
	)

	stores := newMemStores()
	pb := broker.NewPaperBroker(10_000)

	orch := New(
		appCfg,
		strategy,
		[]ingest.Source{&fakeSource{name: "twitter", posts: posts}},
		scorer,
		engine.NewGatekeeper(time.Hour),
		&fixedQuotes{price: 100},
		pb,
		stores.stores(),
		log,
	)

	return &fixture{orch: orch, stores: stores, broker: pb}
}

func TestRunCycle_BuyFlow(t *testing.T) {
	strategy := strategyconfig.Default()
	strategy.Trading.Enabled = true

	fx := newFixture(t, strategy, bullishPosts("elonmusk", 3))

	result, err := fx.orch.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.PostsFetched)
	assert.Equal(t, 3, result.PostsAdmitted)
	assert.Equal(t, 3, result.Scored)
	assert.Equal(t, 0, result.DegradedCount)

	require.NotNil(t, result.Signal)
	assert.Equal(t, 3, result.Signal.Count)
	assert.Greater(t, result.Signal.MeanScore, 0.1)

	require.NotNil(t, result.Decision)
	assert.Equal(t, contracts.ActionBuy, result.Decision.Action)

	require.NotNil(t, result.Order)
	assert.False(t, result.Order.IsVetoed())
	// equity 10000 * 0.02 = 200 budget at price 100 -> 2 shares
	assert.Equal(t, 2, result.Order.Qty)

	require.NotNil(t, result.Fill)
	assert.Equal(t, contracts.StatusFilled, result.Fill.Status)

	assert.Len(t, fx.stores.posts, 3)
	assert.Len(t, fx.stores.results, 3)
	assert.Len(t, fx.stores.decisions, 1)
	assert.Len(t, fx.stores.orders, 1)
	assert.Len(t, fx.stores.fills, 1)
}

func TestRunCycle_SecondRunSameWindowSkipsDecision(t *testing.T) {
	strategy := strategyconfig.Default()
	strategy.Trading.Enabled = true

	fx := newFixture(t, strategy, bullishPosts("elonmusk", 3))

	_, err := fx.orch.RunCycle(context.Background())
	require.NoError(t, err)

	// identical posts again: all deduped, cycle ends before deciding
	result, err := fx.orch.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.PostsAdmitted)
	assert.Nil(t, result.Decision)

	// fresh posts inside the same window: scored, but the window is
	// already decided
	src := fx.orch.sources[0].(*fakeSource)
	for i := range src.posts {
		src.posts[i].SourceID = fmt.Sprintf("tw:batch2:%d", i)
	}

	result, err = fx.orch.RunCycle(context.Background())
	assert.True(t, errors.Is(err, contracts.ErrDuplicateWindowDecision))
	assert.Equal(t, 3, result.Scored)

	assert.Len(t, fx.stores.decisions, 1)
	assert.Len(t, fx.stores.orders, 1)
}

func TestRunCycle_KillSwitchVetoesOrder(t *testing.T) {
	strategy := strategyconfig.Default() // trading disabled

	fx := newFixture(t, strategy, bullishPosts("elonmusk", 3))

	result, err := fx.orch.RunCycle(context.Background())
	require.NoError(t, err)

	require.NotNil(t, result.Decision)
	assert.Equal(t, contracts.ActionBuy, result.Decision.Action)

	require.NotNil(t, result.Order)
	assert.True(t, result.Order.IsVetoed())
	assert.Equal(t, contracts.ErrTradingDisabled.Error(), result.Order.VetoReason)
	assert.Nil(t, result.Fill)

	// the veto is recorded for audit
	require.Len(t, fx.stores.orders, 1)
	assert.Equal(t, contracts.StatusVetoed, fx.stores.orders[0].Status)
}

func TestRunCycle_FailedSentimentSaveKeepsPostEligible(t *testing.T) {
	strategy := strategyconfig.Default()
	strategy.Trading.Enabled = true

	fx := newFixture(t, strategy, bullishPosts("elonmusk", 1))
	fx.stores.sentimentFailures = 1

	// first cycle: the result cannot be stored, the cycle errors and
	// nothing counts as scored
	_, err := fx.orch.RunCycle(context.Background())
	require.Error(t, err)
	assert.Empty(t, fx.stores.results)

	// store healthy again, same post still in the feed: it must be
	// re-admitted and scored this time
	result, err := fx.orch.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.PostsAdmitted)
	assert.Equal(t, 1, result.Scored)
	assert.Len(t, fx.stores.results, 1)
	require.NotNil(t, result.Decision)
}

func TestRunCycle_NoPostsSkipsDecision(t *testing.T) {
	strategy := strategyconfig.Default()

	fx := newFixture(t, strategy, nil)

	result, err := fx.orch.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.PostsFetched)
	assert.Nil(t, result.Signal)
	assert.Nil(t, result.Decision)
	assert.Empty(t, fx.stores.decisions)
}

func TestRunCycle_SourceFailureIsNotFatal(t *testing.T) {
	strategy := strategyconfig.Default()
	strategy.Trading.Enabled = true

	fx := newFixture(t, strategy, bullishPosts("elonmusk", 2))
	fx.orch.sources = append(fx.orch.sources, &fakeSource{name: "reddit", err: errors.New("throttled")})

	result, err := fx.orch.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.PostsAdmitted)
	require.NotNil(t, result.Decision)
}

func TestWindowID_Hourly(t *testing.T) {
	at := time.Date(2026, 8, 31, 14, 59, 59, 0, time.UTC)
	assert.Equal(t, "2026-08-31T14", WindowID(at))

	// same hour, different minute: same window
	assert.Equal(t, WindowID(at), WindowID(at.Add(-30*time.Minute)))
	// next hour: new window
	assert.NotEqual(t, WindowID(at), WindowID(at.Add(time.Minute)))
}
