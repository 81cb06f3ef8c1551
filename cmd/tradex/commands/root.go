package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tradex",
	Short: "TradeX - social sentiment trading pipeline",
	Long: `TradeX Unified CLI

Monitors social feeds for the configured accounts, scores each post
with a hybrid lexicon + model analyzer, and turns the aggregate
signal into sized paper-trading orders.

Usage:
  go run ./cmd/tradex [command]

Examples:
  go run ./cmd/tradex api
  go run ./cmd/tradex monitor
  go run ./cmd/tradex cycle
  go run ./cmd/tradex analyze "TSLA to the moon"
  go run ./cmd/tradex status`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
