package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/tradex/internal/contracts"
	"github.com/wonny/tradex/pkg/config"
	"github.com/wonny/tradex/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	err      error
	runs     chan struct{}
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }

func (j *stubJob) Run(context.Context) error {
	if j.runs != nil {
		j.runs <- struct{}{}
	}
	return j.err
}

func newTestScheduler() *Scheduler {
	s := New(logger.New(&config.Config{Env: "test", LogLevel: "error"}))
	s.retryDelay = time.Millisecond
	return s
}

func TestScheduler_AddJob(t *testing.T) {
	s := newTestScheduler()

	job := &stubJob{name: "a", schedule: "@every 1h"}
	require.NoError(t, s.AddJob(job))

	// duplicate name rejected
	assert.Error(t, s.AddJob(&stubJob{name: "a", schedule: "@every 1h"}))

	// bad cron expression rejected
	assert.Error(t, s.AddJob(&stubJob{name: "b", schedule: "whenever"}))

	assert.Equal(t, []string{"a"}, s.GetAllJobs())
}

func TestScheduler_RunJobRecordsHistory(t *testing.T) {
	s := newTestScheduler()

	job := &stubJob{name: "a", schedule: "@every 1h", runs: make(chan struct{}, 8)}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("a"))

	select {
	case <-job.runs:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}

	// history is recorded asynchronously after the run
	require.Eventually(t, func() bool {
		h, err := s.GetHistory("a")
		return err == nil && len(h.Results) == 1
	}, time.Second, 10*time.Millisecond)

	h, _ := s.GetHistory("a")
	assert.True(t, h.Results[0].Success)
	assert.Equal(t, 1.0, h.GetSuccessRate())

	assert.Error(t, s.RunJob("missing"))
}

func TestScheduler_RetriesAndRecordsFailure(t *testing.T) {
	s := newTestScheduler()

	job := &stubJob{name: "flaky", schedule: "@every 1h", err: errors.New("boom"), runs: make(chan struct{}, 8)}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("flaky"))

	require.Eventually(t, func() bool {
		h, err := s.GetHistory("flaky")
		return err == nil && len(h.Results) == 1
	}, time.Second, 10*time.Millisecond)

	// initial attempt + 2 retries
	assert.Len(t, job.runs, 3)

	h, _ := s.GetHistory("flaky")
	assert.False(t, h.Results[0].Success)
	assert.Contains(t, h.Results[0].Error, "boom")
}

func TestScheduler_DuplicateWindowIsSuccess(t *testing.T) {
	s := newTestScheduler()

	job := &stubJob{name: "cycle", schedule: "@every 1h", err: contracts.ErrDuplicateWindowDecision, runs: make(chan struct{}, 8)}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("cycle"))

	require.Eventually(t, func() bool {
		h, err := s.GetHistory("cycle")
		return err == nil && len(h.Results) == 1
	}, time.Second, 10*time.Millisecond)

	// no retries, recorded as success
	assert.Len(t, job.runs, 1)
	h, _ := s.GetHistory("cycle")
	assert.True(t, h.Results[0].Success)
}
