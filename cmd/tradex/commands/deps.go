package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/wonny/tradex/internal/broker"
	"github.com/wonny/tradex/internal/broker/alpaca"
	"github.com/wonny/tradex/internal/engine"
	"github.com/wonny/tradex/internal/inference"
	"github.com/wonny/tradex/internal/ingest"
	"github.com/wonny/tradex/internal/marketdata"
	"github.com/wonny/tradex/internal/pipeline"
	"github.com/wonny/tradex/internal/sentiment"
	"github.com/wonny/tradex/internal/store"
	"github.com/wonny/tradex/internal/strategyconfig"
	"github.com/wonny/tradex/pkg/config"
	"github.com/wonny/tradex/pkg/database"
	"github.com/wonny/tradex/pkg/logger"
	"github.com/wonny/tradex/pkg/redis"
)

// gatekeeperTTL bounds how long post ids are remembered in memory.
// Must comfortably exceed the ingestion overlap between cycles.
const gatekeeperTTL = 48 * time.Hour

// deps bundles everything a command needs. Commands build it once and
// close it on exit.
type deps struct {
	cfg      *config.Config
	strategy *strategyconfig.Config
	log      *logger.Logger
	db       *database.DB
	redis    *redis.Client

	posts      *store.PostRepository
	sentiments *store.SentimentRepository
	decisions  *store.DecisionRepository
	orders     *store.OrderRepository
	positions  *store.PositionRepository

	scorer *sentiment.Scorer
	gate   *engine.Gatekeeper
	broker broker.Broker
	quotes *marketdata.Provider
	orch   *pipeline.Orchestrator
}

// buildDeps loads config, connects storage and wires the pipeline.
func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	strategy, err := loadStrategy(cfg, log)
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rc, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	d := &deps{
		cfg:      cfg,
		strategy: strategy,
		log:      log,
		db:       db,
		redis:    rc,

		posts:      store.NewPostRepository(db.Pool),
		sentiments: store.NewSentimentRepository(db.Pool),
		decisions:  store.NewDecisionRepository(db.Pool),
		orders:     store.NewOrderRepository(db.Pool),
		positions:  store.NewPositionRepository(db.Pool),
	}

	// hybrid scorer: remote model, lexicon fallback
	model := inference.New(cfg, log)
	d.scorer = sentiment.NewScorer(
		model,
		sentiment.Weights{
			Lexicon: strategy.Sentiment.LexiconWeight,
			Model:   strategy.Sentiment.ModelWeight,
		},
		strategy.Sentiment.LabelThreshold,
		strategy.InferenceTimeout(),
		log,
	)

	// dedup gatekeeper, seeded from recent history
	d.gate = engine.NewGatekeeper(gatekeeperTTL)
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if ids, err := d.posts.ListRecentSourceIDs(seedCtx, time.Now().Add(-gatekeeperTTL)); err != nil {
		log.WithError(err).Warn("failed to seed gatekeeper, relying on database constraints")
	} else {
		d.gate.Seed(ids)
	}

	// broker: Alpaca with keys, paper fallback without
	if cfg.Alpaca.APIKey != "" {
		d.broker = alpaca.New(cfg, rc, log)
	} else {
		log.Warn("no Alpaca keys configured, using in-memory paper broker")
		d.broker = broker.NewPaperBroker(100_000)
	}

	// quotes: Finnhub first, Yahoo scrape fallback
	d.quotes = marketdata.NewProvider(
		redis.NewCache(rc, "tradex"),
		log,
		marketdata.NewFinnhubFetcher(cfg, rc, log),
		marketdata.NewYahooFetcher(log),
	)

	d.orch = pipeline.New(
		cfg,
		strategy,
		buildSources(cfg, rc, log),
		d.scorer,
		d.gate,
		d.quotes,
		d.broker,
		pipeline.Stores{
			Posts:      d.posts,
			Sentiments: d.sentiments,
			Decisions:  d.decisions,
			Orders:     d.orders,
		},
		log,
	)

	return d, nil
}

func (d *deps) close() {
	if d.redis != nil {
		d.redis.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
}

// loadStrategy reads the YAML strategy, falling back to the built-in
// default when the file does not exist.
func loadStrategy(cfg *config.Config, log *logger.Logger) (*strategyconfig.Config, error) {
	if _, err := os.Stat(cfg.StrategyPath); os.IsNotExist(err) {
		log.WithField("path", cfg.StrategyPath).Warn("strategy file not found, using defaults")
		return strategyconfig.Default(), nil
	}

	strategy, _, err := strategyconfig.Load(cfg.StrategyPath)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", cfg.StrategyPath, err)
	}

	hash, err := strategyconfig.Hash(strategy)
	if err != nil {
		return nil, err
	}
	log.WithFields(map[string]interface{}{
		"strategy": strategy.Meta.StrategyID,
		"version":  strategy.Meta.Version,
		"hash":     hash[:12],
		"enabled":  strategy.Trading.Enabled,
	}).Info("strategy loaded")

	return strategy, nil
}

// buildSources wires the enabled post sources. Twitter is skipped
// without a bearer token; Reddit is governed by its own flag.
func buildSources(cfg *config.Config, rc *redis.Client, log *logger.Logger) []ingest.Source {
	sources := make([]ingest.Source, 0, 2)

	if cfg.Twitter.BearerToken != "" {
		sources = append(sources, ingest.NewTwitterSource(cfg, rc, log))
	} else {
		log.Warn("no Twitter bearer token, source disabled")
	}

	if cfg.Reddit.Enabled {
		sources = append(sources, ingest.NewRedditSource(cfg, log))
	}

	if len(sources) == 0 {
		log.Warn("no post sources enabled, cycles will decide on nothing")
	}

	return sources
}
