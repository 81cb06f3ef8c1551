package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/tradex/internal/broker"
	"github.com/wonny/tradex/internal/store"
	"github.com/wonny/tradex/pkg/logger"
)

// PositionSyncJob mirrors broker positions into the local store so
// the API serves holdings without a broker round trip.
type PositionSyncJob struct {
	broker    broker.Broker
	positions *store.PositionRepository
	log       *logger.Logger
}

// NewPositionSyncJob creates the position sync job.
func NewPositionSyncJob(brk broker.Broker, positions *store.PositionRepository, log *logger.Logger) *PositionSyncJob {
	return &PositionSyncJob{broker: brk, positions: positions, log: log}
}

func (j *PositionSyncJob) Name() string { return "position_sync" }

func (j *PositionSyncJob) Schedule() string { return "@every 15m" }

func (j *PositionSyncJob) Run(ctx context.Context) error {
	current, err := j.broker.Positions(ctx)
	if err != nil {
		return fmt.Errorf("fetch broker positions: %w", err)
	}

	open := make(map[string]bool, len(current))
	for i := range current {
		open[current[i].Symbol] = true
		if err := j.positions.Upsert(ctx, &current[i]); err != nil {
			return err
		}
	}

	// remove local snapshots for positions closed at the broker
	stored, err := j.positions.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range stored {
		if !open[p.Symbol] {
			if err := j.positions.Delete(ctx, p.Symbol); err != nil {
				return err
			}
		}
	}

	j.log.WithField("count", len(current)).Debug("positions synced")
	return nil
}
