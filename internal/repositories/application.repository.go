package repositories

import (
	"context"
	"errors"
	"time"

	. "maidhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, application *Application) error
	Save(ctx context.Context, tx *gorm.DB, application *Application) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Application, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Application, error)
	// FindByJobAndMaid returns nil without error when the maid never applied.
	FindByJobAndMaid(ctx context.Context, tx *gorm.DB, jobID, maidID uuid.UUID) (*Application, error)
	ListByJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*Application, error)
	ListByMaid(ctx context.Context, tx *gorm.DB, maidID uuid.UUID) ([]*Application, error)
	ListPendingForUpdate(
		ctx context.Context,
		tx *gorm.DB,
		jobID uuid.UUID,
		excludeID uuid.UUID,
	) ([]*Application, error)
	RejectMany(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, decidedAt time.Time) error
	AcceptedJobIDs(ctx context.Context, tx *gorm.DB, maidID uuid.UUID, jobIDs []uuid.UUID) ([]uuid.UUID, error)
}

type applicationRepository struct {
	log logger.Logger
}

func NewApplicationRepository() ApplicationRepository {
	return &applicationRepository{
		log: logger.New("applicationRepository"),
	}
}

func (r *applicationRepository) Create(ctx context.Context, tx *gorm.DB, application *Application) error {
	log := r.log.Function("Create")

	if err := gorm.G[Application](tx).Create(ctx, application); err != nil {
		return log.Err(
			"failed to create application",
			err,
			"jobID", application.JobID,
			"maidID", application.MaidID,
		)
	}

	return nil
}

func (r *applicationRepository) Save(ctx context.Context, tx *gorm.DB, application *Application) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).Omit("Job", "Maid").Save(application).Error; err != nil {
		return log.Err("failed to save application", err, "applicationID", application.ID)
	}

	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Application, error) {
	log := r.log.Function("GetByID")

	application, err := gorm.G[*Application](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, lookupErr(log, err, "Application not found", "applicationID", id)
	}

	return application, nil
}

func (r *applicationRepository) GetForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Application, error) {
	log := r.log.Function("GetForUpdate")

	var application Application
	if err := forUpdate(tx.WithContext(ctx)).First(&application, "id = ?", id).Error; err != nil {
		return nil, lookupErr(log, err, "Application not found", "applicationID", id)
	}

	return &application, nil
}

func (r *applicationRepository) FindByJobAndMaid(
	ctx context.Context,
	tx *gorm.DB,
	jobID, maidID uuid.UUID,
) (*Application, error) {
	log := r.log.Function("FindByJobAndMaid")

	application, err := gorm.G[*Application](tx).
		Where("job_id = ? AND maid_id = ?", jobID, maidID).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to find application", err, "jobID", jobID, "maidID", maidID)
	}

	return application, nil
}

func (r *applicationRepository) ListByJob(
	ctx context.Context,
	tx *gorm.DB,
	jobID uuid.UUID,
) ([]*Application, error) {
	log := r.log.Function("ListByJob")

	applications, err := gorm.G[*Application](tx).
		Preload("Maid", nil).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list applications", err, "jobID", jobID)
	}

	return applications, nil
}

func (r *applicationRepository) ListByMaid(
	ctx context.Context,
	tx *gorm.DB,
	maidID uuid.UUID,
) ([]*Application, error) {
	log := r.log.Function("ListByMaid")

	applications, err := gorm.G[*Application](tx).
		Preload("Job", nil).
		Where("maid_id = ?", maidID).
		Order("created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list applications", err, "maidID", maidID)
	}

	return applications, nil
}

func (r *applicationRepository) ListPendingForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	jobID uuid.UUID,
	excludeID uuid.UUID,
) ([]*Application, error) {
	log := r.log.Function("ListPendingForUpdate")

	var applications []*Application
	err := forUpdate(tx.WithContext(ctx)).
		Where("job_id = ? AND status = ? AND id <> ?", jobID, ApplicationStatusPending, excludeID).
		Order("created_at ASC").
		Find(&applications).Error
	if err != nil {
		return nil, log.Err("failed to list pending applications", err, "jobID", jobID)
	}

	return applications, nil
}

func (r *applicationRepository) RejectMany(
	ctx context.Context,
	tx *gorm.DB,
	ids []uuid.UUID,
	decidedAt time.Time,
) error {
	log := r.log.Function("RejectMany")

	if len(ids) == 0 {
		return nil
	}

	err := tx.WithContext(ctx).
		Model(&Application{}).
		Where("id IN ? AND status = ?", ids, ApplicationStatusPending).
		Updates(map[string]any{
			"status":     ApplicationStatusRejected,
			"decided_at": decidedAt,
		}).Error
	if err != nil {
		return log.Err("failed to reject applications", err, "count", len(ids))
	}

	return nil
}

func (r *applicationRepository) AcceptedJobIDs(
	ctx context.Context,
	tx *gorm.DB,
	maidID uuid.UUID,
	jobIDs []uuid.UUID,
) ([]uuid.UUID, error) {
	log := r.log.Function("AcceptedJobIDs")

	if len(jobIDs) == 0 {
		return nil, nil
	}

	var ids []uuid.UUID
	err := tx.WithContext(ctx).
		Model(&Application{}).
		Where("maid_id = ? AND status = ? AND job_id IN ?", maidID, ApplicationStatusAccepted, jobIDs).
		Pluck("job_id", &ids).Error
	if err != nil {
		return nil, log.Err("failed to load accepted applications", err, "maidID", maidID)
	}

	return ids, nil
}
