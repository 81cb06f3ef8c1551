// Package pipeline runs the signal-to-decision cycle: fetch posts,
// score them, aggregate, decide, size and submit.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

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

// Storage boundaries, satisfied by the store repositories.

type PostStore interface {
	Save(ctx context.Context, post *contracts.Post) (int64, error)
}

type SentimentStore interface {
	Save(ctx context.Context, res *contracts.SentimentResult) error
}

type DecisionStore interface {
	Save(ctx context.Context, d *contracts.TradeDecision) (int64, error)
}

type OrderStore interface {
	SaveOrder(ctx context.Context, o *contracts.OrderSpec) error
	SaveFill(ctx context.Context, f *contracts.Fill) error
}

// QuoteProvider resolves the reference price for sizing.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*marketdata.Quote, error)
}

// Stores bundles the persistence boundaries the cycle writes to.
type Stores struct {
	Posts      PostStore
	Sentiments SentimentStore
	Decisions  DecisionStore
	Orders     OrderStore
}

// CycleResult summarizes one completed cycle for logging and the API.
type CycleResult struct {
	WindowID      string                     `json:"window_id"`
	PostsFetched  int                        `json:"posts_fetched"`
	PostsAdmitted int                        `json:"posts_admitted"`
	Scored        int                        `json:"scored"`
	DegradedCount int                        `json:"degraded_count"`
	Signal        *contracts.AggregateSignal `json:"signal,omitempty"`
	Decision      *contracts.TradeDecision   `json:"decision,omitempty"`
	Order         *contracts.OrderSpec       `json:"order,omitempty"`
	Fill          *contracts.Fill            `json:"fill,omitempty"`
	StartedAt     time.Time                  `json:"started_at"`
	FinishedAt    time.Time                  `json:"finished_at"`
}

// Orchestrator coordinates one strategy's cycle. Cycles for the same
// symbol are serialized; scoring inside a cycle fans out up to the
// configured concurrency.
type Orchestrator struct {
	cfg      *config.Config
	strategy *strategyconfig.Config

	sources []ingest.Source
	scorer  *sentiment.Scorer
	engine  *engine.DecisionEngine
	sizer   *engine.Sizer
	gate    *engine.Gatekeeper
	quotes  QuoteProvider
	broker  broker.Broker
	stores  Stores
	log     *logger.Logger

	symbolMu sync.Mutex
	locks    map[string]*sync.Mutex
}

// New wires the orchestrator.
func New(
	cfg *config.Config,
	strategy *strategyconfig.Config,
	sources []ingest.Source,
	scorer *sentiment.Scorer,
	gate *engine.Gatekeeper,
	quotes QuoteProvider,
	brk broker.Broker,
	stores Stores,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		strategy: strategy,
		sources:  sources,
		scorer:   scorer,
		engine:   engine.NewDecisionEngine(strategy),
		sizer:    engine.NewSizer(strategy),
		gate:     gate,
		quotes:   quotes,
		broker:   brk,
		stores:   stores,
		log:      log,
	}
}

// WindowID returns the aggregation window for t. Windows are hourly:
// every cycle inside the same UTC hour decides at most once.
func WindowID(t time.Time) string {
	return t.UTC().Format("2006-01-02T15")
}

// RunCycle executes one full cycle for the strategy symbol.
//
// A second cycle for the same (symbol, window) stops at the decision
// step with ErrDuplicateWindowDecision: the posts it fetched are still
// persisted and scored, only the decision is skipped.
func (o *Orchestrator) RunCycle(ctx context.Context) (*CycleResult, error) {
	symbol := o.strategy.Symbol

	lock := o.symbolLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	result := &CycleResult{
		WindowID:  WindowID(time.Now()),
		StartedAt: time.Now().UTC(),
	}
	log := o.log.WithFields(map[string]interface{}{
		"symbol": symbol,
		"window": result.WindowID,
	})

	// 1. fetch
	posts := o.fetchPosts(ctx, log)
	result.PostsFetched = len(posts)

	// 2. admit and persist
	admitted := o.admitPosts(ctx, log, posts)
	result.PostsAdmitted = len(admitted)

	// 3. score concurrently
	results, err := o.scorePosts(ctx, admitted)
	if err != nil {
		return result, err
	}
	result.Scored = len(results)
	for _, r := range results {
		if r.Degraded {
			result.DegradedCount++
		}
	}

	// 4. aggregate
	signal, err := contracts.Aggregate(result.WindowID, results)
	if err != nil {
		if errors.Is(err, contracts.ErrInsufficientSignal) {
			log.Info("no admitted posts this cycle, skipping decision")
			result.FinishedAt = time.Now().UTC()
			return result, nil
		}
		return result, err
	}
	result.Signal = signal

	// 5. decide, at most once per window
	if err := o.gate.AdmitWindow(symbol, result.WindowID); err != nil {
		log.Warn("window already decided, skipping decision")
		result.FinishedAt = time.Now().UTC()
		return result, err
	}

	decision, err := o.engine.Decide(signal)
	if err != nil {
		return result, err
	}

	decisionID, err := o.stores.Decisions.Save(ctx, decision)
	if err != nil {
		// durable guard caught a duplicate another process decided
		if errors.Is(err, contracts.ErrDuplicateWindowDecision) {
			log.Warn("window decided elsewhere, skipping")
			result.FinishedAt = time.Now().UTC()
			return result, err
		}
		return result, fmt.Errorf("persist decision: %w", err)
	}
	decision.ID = decisionID
	result.Decision = decision

	log.WithFields(map[string]interface{}{
		"action": decision.Action,
		"score":  decision.Score,
		"posts":  decision.PostCount,
	}).Info("decision made")

	if !decision.IsActionable() {
		result.FinishedAt = time.Now().UTC()
		return result, nil
	}

	// 6. size and execute
	if err := o.executeDecision(ctx, log, decision, result); err != nil {
		return result, err
	}

	result.FinishedAt = time.Now().UTC()
	return result, nil
}

// fetchPosts pulls from every source for every monitored account.
// A failing source is logged and skipped; the cycle runs on whatever
// the remaining sources produced.
func (o *Orchestrator) fetchPosts(ctx context.Context, log *logger.Logger) []contracts.Post {
	posts := make([]contracts.Post, 0)

	for _, src := range o.sources {
		for _, account := range o.cfg.Monitor.Accounts {
			fetched, err := src.Fetch(ctx, account, o.cfg.Monitor.PostsPerAccount)
			if err != nil {
				log.WithError(err).WithFields(map[string]interface{}{
					"source":  src.Name(),
					"account": account,
				}).Warn("source fetch failed")
				continue
			}
			posts = append(posts, fetched...)
		}
	}

	return posts
}

// admitPosts runs each post through the gatekeeper and persists the
// new ones. Either guard rejecting the post drops it silently; empty
// posts never enter the pipeline.
func (o *Orchestrator) admitPosts(ctx context.Context, log *logger.Logger, posts []contracts.Post) []contracts.Post {
	admitted := make([]contracts.Post, 0, len(posts))

	for _, post := range posts {
		if post.IsEmpty() {
			continue
		}

		if err := o.gate.AdmitPost(post.SourceID); err != nil {
			continue
		}

		id, err := o.stores.Posts.Save(ctx, &post)
		if err != nil {
			if errors.Is(err, contracts.ErrDuplicatePost) {
				continue
			}
			log.WithError(err).WithField("source_id", post.SourceID).Error("failed to persist post")
			continue
		}

		post.ID = id
		admitted = append(admitted, post)
	}

	return admitted
}

// scorePosts fans the admitted posts out to the scorer with bounded
// concurrency and persists each result. Results are collected in
// input order. A post counts as scored only once its result is
// durably stored; posts whose result could not be stored are
// un-admitted from the gatekeeper so a later cycle scores them.
func (o *Orchestrator) scorePosts(ctx context.Context, posts []contracts.Post) ([]contracts.SentimentResult, error) {
	if len(posts) == 0 {
		return nil, nil
	}

	results := make([]contracts.SentimentResult, len(posts))
	stored := make([]bool, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.strategy.Scoring.Concurrency)

	for i, post := range posts {
		g.Go(func() error {
			res := o.scorer.ScorePost(gctx, post)
			if err := o.stores.Sentiments.Save(gctx, &res); err != nil {
				return fmt.Errorf("persist sentiment for %s: %w", post.SourceID, err)
			}
			stored[i] = true
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for i := range posts {
			if !stored[i] {
				o.gate.Forget(posts[i].SourceID)
			}
		}
		return nil, err
	}

	return results, nil
}

// executeDecision sizes the decision and submits the order unless it
// was vetoed. Vetoed orders are persisted for audit and end the cycle
// cleanly.
func (o *Orchestrator) executeDecision(ctx context.Context, log *logger.Logger, decision *contracts.TradeDecision, result *CycleResult) error {
	account, err := o.broker.Account(ctx)
	if err != nil {
		return fmt.Errorf("fetch account: %w", err)
	}

	position, err := o.broker.Position(ctx, decision.Symbol)
	if err != nil {
		return fmt.Errorf("fetch position: %w", err)
	}

	quote, err := o.quotes.Quote(ctx, decision.Symbol)
	if err != nil {
		return fmt.Errorf("fetch quote: %w", err)
	}
	if quote.Stale {
		log.WithField("as_of", quote.AsOf).Warn("sizing against stale quote")
	}

	order := o.sizer.Size(decision, account, position, quote.Price)
	result.Order = &order

	if err := o.stores.Orders.SaveOrder(ctx, &order); err != nil {
		return fmt.Errorf("persist order: %w", err)
	}

	if order.IsVetoed() {
		log.WithField("reason", order.VetoReason).Info("order vetoed")
		return nil
	}

	fill, err := o.broker.Submit(ctx, &order)
	if err != nil {
		return fmt.Errorf("submit order: %w", err)
	}
	result.Fill = fill

	if err := o.stores.Orders.SaveFill(ctx, fill); err != nil {
		return fmt.Errorf("persist fill: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"order_id":  order.ID,
		"broker_id": fill.BrokerID,
		"status":    fill.Status,
		"qty":       order.Qty,
	}).Info("order executed")

	return nil
}

func (o *Orchestrator) symbolLock(symbol string) *sync.Mutex {
	o.symbolMu.Lock()
	defer o.symbolMu.Unlock()

	if o.locks == nil {
		o.locks = make(map[string]*sync.Mutex)
	}
	if _, ok := o.locks[symbol]; !ok {
		o.locks[symbol] = &sync.Mutex{}
	}
	return o.locks[symbol]
}
