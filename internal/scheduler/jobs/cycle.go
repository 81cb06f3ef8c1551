// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/tradex/internal/pipeline"
	"github.com/wonny/tradex/pkg/logger"
)

// CycleJob runs the full pipeline cycle on the poll interval.
type CycleJob struct {
	orch     *pipeline.Orchestrator
	interval time.Duration
	log      *logger.Logger
}

// NewCycleJob creates the cycle job.
func NewCycleJob(orch *pipeline.Orchestrator, interval time.Duration, log *logger.Logger) *CycleJob {
	return &CycleJob{orch: orch, interval: interval, log: log}
}

func (j *CycleJob) Name() string { return "pipeline_cycle" }

func (j *CycleJob) Schedule() string {
	return fmt.Sprintf("@every %s", j.interval)
}

func (j *CycleJob) Run(ctx context.Context) error {
	result, err := j.orch.RunCycle(ctx)
	if err != nil {
		return err
	}

	j.log.WithFields(map[string]interface{}{
		"window":   result.WindowID,
		"fetched":  result.PostsFetched,
		"admitted": result.PostsAdmitted,
		"scored":   result.Scored,
		"degraded": result.DegradedCount,
	}).Info("cycle completed")

	return nil
}
