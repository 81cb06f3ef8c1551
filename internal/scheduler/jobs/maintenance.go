package jobs

import (
	"context"

	"github.com/wonny/tradex/internal/engine"
	"github.com/wonny/tradex/pkg/logger"
)

// GatekeeperCleanupJob expires old post ids from the dedup gatekeeper.
type GatekeeperCleanupJob struct {
	gate *engine.Gatekeeper
	log  *logger.Logger
}

// NewGatekeeperCleanupJob creates the cleanup job.
func NewGatekeeperCleanupJob(gate *engine.Gatekeeper, log *logger.Logger) *GatekeeperCleanupJob {
	return &GatekeeperCleanupJob{gate: gate, log: log}
}

func (j *GatekeeperCleanupJob) Name() string { return "gatekeeper_cleanup" }

func (j *GatekeeperCleanupJob) Schedule() string { return "@every 30m" }

func (j *GatekeeperCleanupJob) Run(_ context.Context) error {
	removed := j.gate.Cleanup()
	if removed > 0 {
		j.log.WithFields(map[string]interface{}{
			"removed":   removed,
			"remaining": j.gate.Size(),
		}).Debug("gatekeeper cleaned up")
	}
	return nil
}
