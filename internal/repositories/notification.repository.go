package repositories

import (
	"context"

	"maidhub/internal/constants"
	"maidhub/internal/database"
	. "maidhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NOTIFICATION_LIST_LIMIT = 100
)

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *Notification) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, userID, notificationID uuid.UUID) (int, error)
	MarkAllRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error)
	UnreadCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewNotificationRepository(cache database.CacheClient) NotificationRepository {
	return &notificationRepository{
		cache: cache,
		log:   logger.New("notificationRepository"),
	}
}

func (r *notificationRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	notification *Notification,
) error {
	log := r.log.Function("Create")

	if err := gorm.G[Notification](tx).Create(ctx, notification); err != nil {
		return log.Err("failed to create notification", err, "userID", notification.UserID)
	}

	r.clearUnreadCount(ctx, notification.UserID)

	return nil
}

func (r *notificationRepository) ListByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	unreadOnly bool,
) ([]*Notification, error) {
	log := r.log.Function("ListByUser")

	query := gorm.G[*Notification](tx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	notifications, err := query.Order("created_at DESC").Limit(NOTIFICATION_LIST_LIMIT).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list notifications", err, "userID", userID)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(
	ctx context.Context,
	tx *gorm.DB,
	userID, notificationID uuid.UUID,
) (int, error) {
	log := r.log.Function("MarkRead")

	rows, err := gorm.G[Notification](tx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update(ctx, "is_read", true)
	if err != nil {
		return 0, log.Err("failed to mark notification read", err, "notificationID", notificationID)
	}

	r.clearUnreadCount(ctx, userID)

	return rows, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	log := r.log.Function("MarkAllRead")

	rows, err := gorm.G[Notification](tx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update(ctx, "is_read", true)
	if err != nil {
		return 0, log.Err("failed to mark notifications read", err, "userID", userID)
	}

	r.clearUnreadCount(ctx, userID)

	return rows, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	log := r.log.Function("UnreadCount")

	cached, found, err := database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(constants.NotificationUnreadCachePrefix).
		GetInt()
	if err != nil && err != database.ErrCacheUnavailable {
		log.Warn("failed to read unread count from cache", "userID", userID, "error", err)
	}
	if found {
		return cached, nil
	}

	count, err := gorm.G[Notification](tx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(ctx, "id")
	if err != nil {
		return 0, log.Err("failed to count unread notifications", err, "userID", userID)
	}

	err = database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(constants.NotificationUnreadCachePrefix).
		WithInt(count).
		WithTTL(constants.NotificationUnreadCacheExpiry).
		Set()
	if err != nil && err != database.ErrCacheUnavailable {
		log.Warn("failed to cache unread count", "userID", userID, "error", err)
	}

	return count, nil
}

func (r *notificationRepository) clearUnreadCount(ctx context.Context, userID uuid.UUID) {
	database.AfterCommit(ctx, func(ctx context.Context) {
		err := database.NewCacheBuilder(r.cache, userID).
			WithContext(ctx).
			WithHash(constants.NotificationUnreadCachePrefix).
			Delete()
		if err != nil && err != database.ErrCacheUnavailable {
			r.log.Function("clearUnreadCount").Warn("failed to clear unread count", "userID", userID, "error", err)
		}
	})
}
