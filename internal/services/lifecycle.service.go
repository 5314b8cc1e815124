package services

import (
	"context"
	"time"

	"maidhub/internal/database"
	ierr "maidhub/internal/errors"
	"maidhub/internal/models"
	"maidhub/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NoteJobPosted       = "Job posted"
	NoteMaidAssigned    = "Maid assigned"
	NoteClientCompleted = "Job completed by client"
	NoteAutoCompleted   = "Automatically completed: scheduled date passed"
	NoteJobCancelled    = "Job cancelled"
)

// JobLifecycleService owns job status transitions and the history they leave behind.
type JobLifecycleService struct {
	db          database.DB
	transaction *TransactionService
	jobs        repositories.JobRepository
	history     repositories.HistoryRepository
	now         func() time.Time
	log         logger.Logger
}

func NewJobLifecycleService(
	db database.DB,
	transaction *TransactionService,
	repos repositories.Repository,
) *JobLifecycleService {
	return &JobLifecycleService{
		db:          db,
		transaction: transaction,
		jobs:        repos.Job,
		history:     repos.History,
		now:         time.Now,
		log:         logger.New("JobLifecycleService"),
	}
}

// Now is the lifecycle clock, in UTC.
func (s *JobLifecycleService) Now() time.Time {
	return s.now().UTC()
}

// Transition moves a locked job to next, stamps the matching timestamp,
// saves it and appends a history entry. changedBy is nil for automatic changes.
func (s *JobLifecycleService) Transition(
	ctx context.Context,
	tx *gorm.DB,
	job *models.Job,
	next models.JobStatus,
	note string,
	changedBy *uuid.UUID,
) error {
	log := s.log.Function("Transition")

	if !job.Status.CanTransitionTo(next) {
		log.Info("Rejected job transition", "jobID", job.ID, "from", job.Status, "to", next)
		return ierr.InvalidState("Job cannot move from " + string(job.Status) + " to " + string(next))
	}

	now := s.Now()
	job.Status = next
	switch next {
	case models.JobStatusCompleted:
		job.CompletedAt = &now
	case models.JobStatusCancelled:
		job.CancelledAt = &now
	}

	if err := s.jobs.Save(ctx, tx, job); err != nil {
		return err
	}

	return s.RecordHistory(ctx, tx, job, note, changedBy)
}

// RecordHistory appends an entry for the job's current status.
func (s *JobLifecycleService) RecordHistory(
	ctx context.Context,
	tx *gorm.DB,
	job *models.Job,
	note string,
	changedBy *uuid.UUID,
) error {
	return s.history.Append(ctx, tx, &models.JobHistory{
		JobID:     job.ID,
		Status:    job.Status,
		Note:      note,
		ChangedBy: changedBy,
	})
}

// SweepOverdue completes every IN_PROGRESS job whose latest work date is
// before today. Each job is locked and re-checked in its own transaction, so
// concurrent sweeps complete a job once. Returns the number of jobs completed.
func (s *JobLifecycleService) SweepOverdue(ctx context.Context) (int, error) {
	log := s.log.Function("SweepOverdue")

	now := s.Now()
	candidates, err := s.jobs.ListOverdue(ctx, s.db.SQLWithContext(ctx), now)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, candidate := range candidates {
		if !candidate.IsOverdue(now) {
			continue
		}

		done := false
		err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			job, err := s.jobs.GetForUpdate(ctx, tx, candidate.ID)
			if err != nil {
				return err
			}

			if !job.IsOverdue(now) {
				return nil
			}

			if err := s.Transition(ctx, tx, job, models.JobStatusCompleted, NoteAutoCompleted, nil); err != nil {
				return err
			}

			done = true
			return nil
		})
		if err != nil {
			if !ierr.IsNotFound(err) {
				log.Er("failed to complete overdue job", err, "jobID", candidate.ID)
			}
			continue
		}

		if done {
			completed++
		}
	}

	if completed > 0 {
		log.Info("Completed overdue jobs", "count", completed)
	}

	return completed, nil
}
