package repositories

import (
	"context"
	"time"

	. "maidhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const JOB_LIST_LIMIT = 200

type JobFilter struct {
	Status   *JobStatus
	ClientID *uuid.UUID
	// MaidID limits results to OPEN jobs plus jobs the maid applied to or is assigned to.
	MaidID *uuid.UUID
	Limit  int
}

type JobRepository interface {
	Create(ctx context.Context, tx *gorm.DB, job *Job) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Job, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Job, error)
	Save(ctx context.Context, tx *gorm.DB, job *Job) error
	List(ctx context.Context, tx *gorm.DB, filter JobFilter) ([]*Job, error)
	ListOverdue(ctx context.Context, tx *gorm.DB, today time.Time) ([]*Job, error)
}

type jobRepository struct {
	log logger.Logger
}

func NewJobRepository() JobRepository {
	return &jobRepository{
		log: logger.New("jobRepository"),
	}
}

func (r *jobRepository) Create(ctx context.Context, tx *gorm.DB, job *Job) error {
	log := r.log.Function("Create")

	if err := gorm.G[Job](tx).Create(ctx, job); err != nil {
		return log.Err("failed to create job", err, "clientID", job.ClientID)
	}

	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Job, error) {
	log := r.log.Function("GetByID")

	job, err := gorm.G[*Job](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, lookupErr(log, err, "Job not found", "jobID", id)
	}

	return job, nil
}

func (r *jobRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Job, error) {
	log := r.log.Function("GetForUpdate")

	var job Job
	if err := forUpdate(tx.WithContext(ctx)).First(&job, "id = ?", id).Error; err != nil {
		return nil, lookupErr(log, err, "Job not found", "jobID", id)
	}

	return &job, nil
}

func (r *jobRepository) Save(ctx context.Context, tx *gorm.DB, job *Job) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).Omit("Client", "AssignedMaid").Save(job).Error; err != nil {
		return log.Err("failed to save job", err, "jobID", job.ID)
	}

	return nil
}

func (r *jobRepository) List(ctx context.Context, tx *gorm.DB, filter JobFilter) ([]*Job, error) {
	log := r.log.Function("List")

	limit := filter.Limit
	if limit <= 0 || limit > JOB_LIST_LIMIT {
		limit = JOB_LIST_LIMIT
	}

	query := tx.WithContext(ctx).Model(&Job{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}

	if filter.MaidID != nil {
		query = query.Where(
			"status = ? OR assigned_maid_id = ? OR id IN (?)",
			JobStatusOpen,
			*filter.MaidID,
			tx.Model(&Application{}).Select("job_id").Where("maid_id = ?", *filter.MaidID),
		)
	}

	var jobs []*Job
	if err := query.Order("created_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, log.Err("failed to list jobs", err)
	}

	return jobs, nil
}

// ListOverdue returns IN_PROGRESS jobs whose latest work date is before
// today. Only the columns the overdue check reads are loaded; callers lock and
// reload a job before changing it.
func (r *jobRepository) ListOverdue(ctx context.Context, tx *gorm.DB, today time.Time) ([]*Job, error) {
	log := r.log.Function("ListOverdue")

	jobs, err := gorm.G[*Job](tx).
		Select("id, status, work_date, work_dates").
		Where("status = ?", JobStatusInProgress).
		Where(`COALESCE(
			(SELECT MAX(d) FROM jsonb_array_elements_text(COALESCE(jobs.work_dates, '[]'::jsonb)) AS d
				WHERE d ~ '^[0-9]{4}-[0-9]{2}-[0-9]{2}$'),
			to_char(jobs.work_date, 'YYYY-MM-DD')
		) < ?`, today.UTC().Format(WorkDateLayout)).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list overdue jobs", err)
	}

	return jobs, nil
}
