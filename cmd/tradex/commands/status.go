package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline health and configuration",
	Long: `Connects to the configured backends and prints a one-shot
health summary: strategy revision, database pool, cache, broker
account and enabled post sources.

Example:
  go run ./cmd/tradex status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fmt.Println("Strategy")
	fmt.Printf("  %-12s %s (v%d)\n", "id:", d.strategy.Meta.StrategyID, d.strategy.Meta.Version)
	fmt.Printf("  %-12s %s\n", "symbol:", d.strategy.Symbol)
	fmt.Printf("  %-12s %t\n", "trading:", d.strategy.Trading.Enabled)
	fmt.Printf("  %-12s buy > %+.2f, sell < %+.2f\n", "thresholds:",
		d.strategy.Decision.PositiveThreshold, d.strategy.Decision.NegativeThreshold)
	fmt.Printf("  %-12s lexicon %.2f / model %.2f\n", "weights:",
		d.strategy.Sentiment.LexiconWeight, d.strategy.Sentiment.ModelWeight)
	fmt.Println()

	fmt.Println("Database")
	if health, err := d.db.HealthCheck(ctx); err != nil {
		fmt.Printf("  %-12s unhealthy: %v\n", "status:", err)
	} else {
		fmt.Printf("  %-12s ok (%v)\n", "status:", health.ResponseTime.Round(time.Millisecond))
		fmt.Printf("  %-12s %d/%d (idle %d)\n", "conns:",
			health.Stats.TotalConns, health.Stats.MaxConns, health.Stats.IdleConns)
	}
	fmt.Println()

	fmt.Println("Redis")
	if d.redis.Enabled() {
		fmt.Printf("  %-12s enabled (%s:%s)\n", "status:", d.cfg.Redis.Host, d.cfg.Redis.Port)
	} else {
		fmt.Printf("  %-12s disabled, caching and rate limits are off\n", "status:")
	}
	fmt.Println()

	fmt.Println("Broker")
	if d.cfg.Alpaca.APIKey != "" {
		mode := "live"
		if d.cfg.Alpaca.Paper {
			mode = "paper"
		}
		fmt.Printf("  %-12s alpaca (%s)\n", "mode:", mode)
	} else {
		fmt.Printf("  %-12s in-memory paper\n", "mode:")
	}
	if account, err := d.broker.Account(ctx); err != nil {
		fmt.Printf("  %-12s unavailable: %v\n", "account:", err)
	} else {
		fmt.Printf("  %-12s equity %.2f, cash %.2f\n", "account:", account.Equity, account.Cash)
	}
	fmt.Println()

	fmt.Println("Ingestion")
	fmt.Printf("  %-12s %s\n", "accounts:", strings.Join(d.cfg.Monitor.Accounts, ", "))
	fmt.Printf("  %-12s %v\n", "interval:", d.cfg.Monitor.PollInterval)
	fmt.Printf("  %-12s twitter=%t reddit=%t\n", "sources:",
		d.cfg.Twitter.BearerToken != "", d.cfg.Reddit.Enabled)
	fmt.Printf("  %-12s %d post ids remembered\n", "gatekeeper:", d.gate.Size())

	return nil
}
