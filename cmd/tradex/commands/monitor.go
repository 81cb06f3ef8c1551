package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tradex/internal/broker/alpaca"
	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/internal/scheduler"
	"github.com/wonny/tradex/internal/scheduler/jobs"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Start the monitoring daemon",
	Long: `Starts the scheduler daemon that runs the pipeline on the
configured poll interval.

Scheduled jobs:
- pipeline_cycle: fetch, score, decide, size, submit (POLL_INTERVAL)
- position_sync: mirror broker positions locally (every 15m)
- gatekeeper_cleanup: expire old dedup entries (every 30m)

With Alpaca keys configured the trade-updates stream is consumed so
fills are recorded as they happen.

Press Ctrl+C to stop.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	sched := scheduler.New(d.log)

	if err := sched.AddJob(jobs.NewCycleJob(d.orch, d.cfg.Monitor.PollInterval, d.log)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewPositionSyncJob(d.broker, d.positions, d.log)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewGatekeeperCleanupJob(d.gate, d.log)); err != nil {
		return err
	}

	// live fills from the broker stream, when configured
	var stream *alpaca.Stream
	if d.cfg.Alpaca.APIKey != "" {
		stream = alpaca.NewStream(d.cfg, d.log)
		stream.OnFill(func(fill *contracts.Fill) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := d.orders.SaveFill(ctx, fill); err != nil {
				d.log.WithError(err).Error("failed to record streamed fill")
			}
		})

		if err := stream.Connect(context.Background()); err != nil {
			d.log.WithError(err).Warn("trade stream unavailable, relying on status polls")
			stream = nil
		}
	}

	sched.Start()

	fmt.Println("monitor started, jobs:")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if stream != nil {
		stream.Disconnect()
	}
	sched.Stop()

	return nil
}
