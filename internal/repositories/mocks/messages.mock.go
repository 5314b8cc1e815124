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

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, tx *gorm.DB, message *models.Message) error {
	return m.Called(ctx, tx, message).Error(0)
}

func (m *MockMessageRepository) Save(ctx context.Context, tx *gorm.DB, message *models.Message) error {
	return m.Called(ctx, tx, message).Error(0)
}

func (m *MockMessageRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Message, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) GetForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.Message, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) ListByJob(
	ctx context.Context,
	tx *gorm.DB,
	jobID uuid.UUID,
) ([]*models.Message, error) {
	args := m.Called(ctx, tx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *MockMessageRepository) ReadMessageIDs(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	messageIDs []uuid.UUID,
) ([]uuid.UUID, error) {
	args := m.Called(ctx, tx, userID, messageIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockMessageRepository) UnreadIDs(
	ctx context.Context,
	tx *gorm.DB,
	jobID, userID uuid.UUID,
) ([]uuid.UUID, error) {
	args := m.Called(ctx, tx, jobID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	messageIDs []uuid.UUID,
	readAt time.Time,
) ([]uuid.UUID, error) {
	args := m.Called(ctx, tx, userID, messageIDs, readAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockMessageRepository) UnreadCounts(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]repositories.JobUnreadCount, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.JobUnreadCount), args.Error(1)
}

func (m *MockMessageRepository) IsAttachmentVisibleTo(
	ctx context.Context,
	tx *gorm.DB,
	fileID, userID uuid.UUID,
) (bool, error) {
	args := m.Called(ctx, tx, fileID, userID)
	return args.Bool(0), args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, tx *gorm.DB, report *models.MessageReport) error {
	return m.Called(ctx, tx, report).Error(0)
}

func (m *MockReportRepository) GetForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.MessageReport, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MessageReport), args.Error(1)
}

func (m *MockReportRepository) Save(ctx context.Context, tx *gorm.DB, report *models.MessageReport) error {
	return m.Called(ctx, tx, report).Error(0)
}

func (m *MockReportRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	status *models.ReportStatus,
) ([]*models.MessageReport, error) {
	args := m.Called(ctx, tx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MessageReport), args.Error(1)
}
