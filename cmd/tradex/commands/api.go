package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tradex/internal/api"
	"github.com/wonny/tradex/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health               - Health check
  POST /api/pipeline/cycle   - Run one pipeline cycle
  GET  /api/posts            - Recent ingested posts
  GET  /api/sentiments       - Recent sentiment results
  POST /api/analyze          - Score arbitrary text
  GET  /api/decisions        - Recent trade decisions
  GET  /api/orders           - Recent orders (vetoed included)
  GET  /api/positions        - Mirrored positions
  GET  /api/account          - Live broker account

Example:
  go run ./cmd/tradex api
  go run ./cmd/tradex api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	pipelineHandler := handlers.NewPipelineHandler(d.orch, d.log)
	sentimentHandler := handlers.NewSentimentHandler(d.posts, d.sentiments, d.scorer, d.log)
	tradingHandler := handlers.NewTradingHandler(d.strategy.Symbol, d.decisions, d.orders, d.positions, d.broker, d.log)

	router := api.NewRouter(pipelineHandler, sentimentHandler, tradingHandler, d.log)
	server := api.New(d.cfg, d.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
