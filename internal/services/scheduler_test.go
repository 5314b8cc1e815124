package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name     string
	schedule Schedule
}

func (j stubJob) Name() string { return j.name }
func (j stubJob) Execute(ctx context.Context) error { return nil }
func (j stubJob) Schedule() Schedule { return j.schedule }

func TestSchedulerService_AddJob(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.AddJob(stubJob{name: "hourly", schedule: Hourly}))
	require.NoError(t, scheduler.AddJob(stubJob{name: "daily", schedule: Daily}))
	assert.Error(t, scheduler.AddJob(stubJob{name: "unknown", schedule: Schedule(99)}))

	assert.Equal(t, 2, scheduler.GetJobCount())
}

func TestSchedulerService_StartWithoutJobs(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.Start(context.Background()))
	assert.False(t, scheduler.IsRunning())
	assert.NoError(t, scheduler.Stop(context.Background()))
}

func TestSchedulerService_StartStop(t *testing.T) {
	scheduler := NewSchedulerService()
	require.NoError(t, scheduler.AddJob(stubJob{name: "hourly", schedule: Hourly}))

	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	require.NoError(t, scheduler.Start(context.Background()))
	require.NoError(t, scheduler.Stop(context.Background()))
	assert.False(t, scheduler.IsRunning())
}

type failingJob struct{ stubJob }

func (j failingJob) Execute(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return nil
	}
	return assert.AnError
}

func TestSchedulerService_ExecuteJobRecordsRun(t *testing.T) {
	scheduler := NewSchedulerService()

	scheduler.executeJob(stubJob{name: "sweep", schedule: Hourly})
	scheduler.executeJob(failingJob{stubJob{name: "cleanup", schedule: Daily}})

	runs := scheduler.LastRuns()
	require.Len(t, runs, 2)

	assert.Empty(t, runs["sweep"].Error)
	assert.NotEmpty(t, runs["sweep"].TraceID)
	assert.False(t, runs["sweep"].FinishedAt.Before(runs["sweep"].StartedAt))

	assert.Equal(t, assert.AnError.Error(), runs["cleanup"].Error)
}
