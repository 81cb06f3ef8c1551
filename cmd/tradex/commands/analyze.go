package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/internal/inference"
	"github.com/wonny/tradex/internal/sentiment"
	"github.com/wonny/tradex/internal/strategyconfig"
	"github.com/wonny/tradex/pkg/config"
	"github.com/wonny/tradex/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Score a piece of text",
	Long: `Scores arbitrary text with the hybrid analyzer and prints
the breakdown. Uses the built-in keyword model unless --remote is set,
so it works without any backend running.

Example:
  go run ./cmd/tradex analyze "TSLA to the moon 🚀"
  go run ./cmd/tradex analyze --remote "deliveries missed estimates"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var analyzeRemote bool

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeRemote, "remote", false, "use the remote inference backend")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	// no storage needed for ad-hoc analysis
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.LogLevel = "warn"
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	strategy, err := loadStrategy(cfg, log)
	if err != nil {
		return err
	}

	var model sentiment.ModelScorer = &sentiment.StaticModel{}
	if analyzeRemote {
		model = inference.New(cfg, log)
	}

	scorer := sentiment.NewScorer(
		model,
		sentiment.Weights{
			Lexicon: strategy.Sentiment.LexiconWeight,
			Model:   strategy.Sentiment.ModelWeight,
		},
		strategy.Sentiment.LabelThreshold,
		strategy.InferenceTimeout(),
		log,
	)

	result := scorer.ScorePost(context.Background(), contracts.Post{
		SourceID:   "cli",
		Author:     "cli",
		Text:       text,
		CreatedAt:  time.Now().UTC(),
		IngestedAt: time.Now().UTC(),
	})

	fmt.Printf("text:       %s\n", text)
	fmt.Printf("lexicon:    %+.4f\n", result.LexiconScore)
	if result.Degraded {
		fmt.Printf("model:      unavailable (%s)\n", result.DegradedReason)
	} else {
		fmt.Printf("model:      %s (%.2f)\n", result.ModelLabel, result.ModelConfidence)
	}
	fmt.Printf("combined:   %+.4f -> %s\n", result.CombinedScore, result.CombinedLabel)

	printThresholdHint(result.CombinedScore, strategy)
	return nil
}

func printThresholdHint(score float64, strategy *strategyconfig.Config) {
	switch {
	case score > strategy.Decision.PositiveThreshold:
		fmt.Println("signal:     above buy threshold")
	case score < strategy.Decision.NegativeThreshold:
		fmt.Println("signal:     below sell threshold")
	default:
		fmt.Println("signal:     inside hold band")
	}
}
