package services

import (
	"context"
	"maps"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

type Schedule int

const (
	Hourly Schedule = iota
	Daily           // 02:00 UTC
)

const JOB_RUN_TIMEOUT = 15 * time.Minute

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

// JobRun is the outcome of the most recent execution of a job.
type JobRun struct {
	TraceID    string    `json:"traceId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Error      string    `json:"error,omitempty"`
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	runsMu    sync.RWMutex
	runs      map[string]JobRun
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSchedulerService() *SchedulerService {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler: scheduler,
		jobs:      make([]Job, 0),
		runs:      make(map[string]JobRun),
		log:       logger.New("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// executeJob runs job under its own trace ID and deadline and records the
// outcome. Stop cancels a run in flight.
func (s *SchedulerService) executeJob(job Job) {
	run := JobRun{TraceID: uuid.New().String(), StartedAt: time.Now().UTC()}

	ctx, cancel := context.WithTimeout(logger.ContextWithTraceID(s.ctx, run.TraceID), JOB_RUN_TIMEOUT)
	defer cancel()

	log := s.log.TraceFromContext(ctx).Function("executeJob")
	log.Info("Executing scheduled job", "job", job.Name())

	err := job.Execute(ctx)
	run.FinishedAt = time.Now().UTC()
	if err != nil {
		run.Error = err.Error()
		log.Er("Job execution failed", err, "job", job.Name())
	} else {
		log.Info("Job execution completed", "job", job.Name(), "duration", run.FinishedAt.Sub(run.StartedAt))
	}

	s.runsMu.Lock()
	s.runs[job.Name()] = run
	s.runsMu.Unlock()
}

func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	var err error
	switch job.Schedule() {
	case Daily:
		_, err = s.scheduler.Every(1).Day().At("02:00").Do(s.executeJob, job)
	case Hourly:
		_, err = s.scheduler.Every(1).Hour().Do(s.executeJob, job)
	default:
		return log.Error("unknown job schedule", "job", job.Name(), "schedule", job.Schedule())
	}

	if err != nil {
		return log.Err("failed to register job with scheduler", err, "job", job.Name())
	}

	s.jobs = append(s.jobs, job)
	log.Info("Job registered", "job", job.Name())

	return nil
}

func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started {
		return nil
	}

	if len(s.jobs) == 0 {
		log.Info("No jobs registered, scheduler will not start")
		return nil
	}

	log.Info("Starting scheduler", "jobCount", len(s.jobs))
	s.scheduler.StartAsync()
	s.started = true

	for _, job := range s.scheduler.Jobs() {
		log.Info("Job scheduled", "nextRun", job.NextRun())
	}

	return nil
}

func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.cancel()
	s.scheduler.Stop()
	s.started = false

	s.log.Function("Stop").Info("Scheduler stopped")
	return nil
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) GetJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// LastRuns returns a copy of the latest outcome per job name.
func (s *SchedulerService) LastRuns() map[string]JobRun {
	s.runsMu.RLock()
	defer s.runsMu.RUnlock()
	return maps.Clone(s.runs)
}
