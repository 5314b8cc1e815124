// Package mocks holds testify mocks of the repository interfaces for
// controller and service tests.
package mocks

import (
	"context"
	"time"

	"maidhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	args := m.Called(ctx, tx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	args := m.Called(ctx, tx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return m.Called(ctx, tx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return m.Called(ctx, tx, user).Error(0)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return m.Called(ctx, tx, user).Error(0)
}

func (m *MockUserRepository) GetExperienceAnswers(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*models.ExperienceAnswer, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ExperienceAnswer), args.Error(1)
}

func (m *MockUserRepository) ReplaceExperienceAnswers(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	answers []*models.ExperienceAnswer,
) error {
	return m.Called(ctx, tx, userID, answers).Error(0)
}

type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, tx *gorm.DB, file *models.UserFile) error {
	return m.Called(ctx, tx, file).Error(0)
}

func (m *MockFileRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.UserFile, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserFile), args.Error(1)
}

func (m *MockFileRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*models.UserFile, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserFile), args.Error(1)
}

func (m *MockFileRepository) ListOrphanAttachments(
	ctx context.Context,
	tx *gorm.DB,
	before time.Time,
	limit int,
) ([]*models.UserFile, error) {
	args := m.Called(ctx, tx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserFile), args.Error(1)
}

func (m *MockFileRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return m.Called(ctx, tx, id).Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	return m.Called(ctx, tx, notification).Error(0)
}

func (m *MockNotificationRepository) ListByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	unreadOnly bool,
) ([]*models.Notification, error) {
	args := m.Called(ctx, tx, userID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(
	ctx context.Context,
	tx *gorm.DB,
	userID, notificationID uuid.UUID,
) (int, error) {
	args := m.Called(ctx, tx, userID, notificationID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, tx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) UnreadCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(ctx context.Context, tx *gorm.DB, rating *models.Rating) error {
	return m.Called(ctx, tx, rating).Error(0)
}

func (m *MockRatingRepository) Exists(ctx context.Context, tx *gorm.DB, jobID, raterID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, jobID, raterID)
	return args.Bool(0), args.Error(1)
}
