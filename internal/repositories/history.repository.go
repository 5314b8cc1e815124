package repositories

import (
	"context"

	. "maidhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository stores the append-only job status log.
type HistoryRepository interface {
	Append(ctx context.Context, tx *gorm.DB, entry *JobHistory) error
	ListByJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*JobHistory, error)
}

type historyRepository struct {
	log logger.Logger
}

func NewHistoryRepository() HistoryRepository {
	return &historyRepository{
		log: logger.New("historyRepository"),
	}
}

func (r *historyRepository) Append(ctx context.Context, tx *gorm.DB, entry *JobHistory) error {
	log := r.log.Function("Append")

	if err := gorm.G[JobHistory](tx).Create(ctx, entry); err != nil {
		return log.Err(
			"failed to append job history",
			err,
			"jobID", entry.JobID,
			"status", entry.Status,
		)
	}

	return nil
}

func (r *historyRepository) ListByJob(
	ctx context.Context,
	tx *gorm.DB,
	jobID uuid.UUID,
) ([]*JobHistory, error) {
	log := r.log.Function("ListByJob")

	entries, err := gorm.G[*JobHistory](tx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list job history", err, "jobID", jobID)
	}

	return entries, nil
}
