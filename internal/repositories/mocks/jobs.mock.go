package mocks

import (
	"context"
	"time"

	"maidhub/internal/models"
	"maidhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, tx *gorm.DB, job *models.Job) error {
	return m.Called(ctx, tx, job).Error(0)
}

func (m *MockJobRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobRepository) Save(ctx context.Context, tx *gorm.DB, job *models.Job) error {
	return m.Called(ctx, tx, job).Error(0)
}

func (m *MockJobRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.JobFilter,
) ([]*models.Job, error) {
	args := m.Called(ctx, tx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Job), args.Error(1)
}

func (m *MockJobRepository) ListOverdue(
	ctx context.Context,
	tx *gorm.DB,
	today time.Time,
) ([]*models.Job, error) {
	args := m.Called(ctx, tx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Job), args.Error(1)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, tx *gorm.DB, entry *models.JobHistory) error {
	return m.Called(ctx, tx, entry).Error(0)
}

func (m *MockHistoryRepository) ListByJob(
	ctx context.Context,
	tx *gorm.DB,
	jobID uuid.UUID,
) ([]*models.JobHistory, error) {
	args := m.Called(ctx, tx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.JobHistory), args.Error(1)
}

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, tx *gorm.DB, application *models.Application) error {
	return m.Called(ctx, tx, application).Error(0)
}

func (m *MockApplicationRepository) Save(ctx context.Context, tx *gorm.DB, application *models.Application) error {
	return m.Called(ctx, tx, application).Error(0)
}

func (m *MockApplicationRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.Application, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) GetForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.Application, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) FindByJobAndMaid(
	ctx context.Context,
	tx *gorm.DB,
	jobID, maidID uuid.UUID,
) (*models.Application, error) {
	args := m.Called(ctx, tx, jobID, maidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) ListByJob(
	ctx context.Context,
	tx *gorm.DB,
	jobID uuid.UUID,
) ([]*models.Application, error) {
	args := m.Called(ctx, tx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) ListByMaid(
	ctx context.Context,
	tx *gorm.DB,
	maidID uuid.UUID,
) ([]*models.Application, error) {
	args := m.Called(ctx, tx, maidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) ListPendingForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	jobID uuid.UUID,
	excludeID uuid.UUID,
) ([]*models.Application, error) {
	args := m.Called(ctx, tx, jobID, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) RejectMany(
	ctx context.Context,
	tx *gorm.DB,
	ids []uuid.UUID,
	decidedAt time.Time,
) error {
	return m.Called(ctx, tx, ids, decidedAt).Error(0)
}

func (m *MockApplicationRepository) AcceptedJobIDs(
	ctx context.Context,
	tx *gorm.DB,
	maidID uuid.UUID,
	jobIDs []uuid.UUID,
) ([]uuid.UUID, error) {
	args := m.Called(ctx, tx, maidID, jobIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
