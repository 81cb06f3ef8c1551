package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tradex/internal/contracts"
)

// cycleCmd represents the cycle command
var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run one pipeline cycle and exit",
	Long: `Runs a single fetch-score-decide-size-submit cycle for the
configured strategy symbol, prints the outcome and exits.

Example:
  go run ./cmd/tradex cycle`,
	RunE: runCycle,
}

func init() {
	rootCmd.AddCommand(cycleCmd)
}

func runCycle(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := d.orch.RunCycle(ctx)
	if err != nil && !errors.Is(err, contracts.ErrDuplicateWindowDecision) {
		return err
	}

	fmt.Printf("window:    %s\n", result.WindowID)
	fmt.Printf("fetched:   %d\n", result.PostsFetched)
	fmt.Printf("admitted:  %d\n", result.PostsAdmitted)
	fmt.Printf("scored:    %d (%d lexicon-only)\n", result.Scored, result.DegradedCount)

	if result.Signal != nil {
		fmt.Printf("signal:    mean=%.4f (%d+/%d-/%d~)\n",
			result.Signal.MeanScore, result.Signal.Positive, result.Signal.Negative, result.Signal.Neutral)
	}

	switch {
	case errors.Is(err, contracts.ErrDuplicateWindowDecision):
		fmt.Println("decision:  skipped, window already decided")
	case result.Decision != nil:
		fmt.Printf("decision:  %s (%s)\n", result.Decision.Action, result.Decision.Rationale)
	default:
		fmt.Println("decision:  none (no admitted posts)")
	}

	if result.Order != nil {
		if result.Order.IsVetoed() {
			fmt.Printf("order:     vetoed (%s)\n", result.Order.VetoReason)
		} else {
			fmt.Printf("order:     %s %d @ %.2f\n", result.Order.Side, result.Order.Qty, result.Order.RefPrice)
		}
	}
	if result.Fill != nil {
		fmt.Printf("fill:      %s (broker id %s)\n", result.Fill.Status, result.Fill.BrokerID)
	}

	return nil
}
