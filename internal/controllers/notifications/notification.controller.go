package notificationController

import (
	"context"

	"maidhub/internal/database"
	ierr "maidhub/internal/errors"
	. "maidhub/internal/models"
	"maidhub/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type NotificationController struct {
	notificationRepo repositories.NotificationRepository
	db               database.DB
	log              logger.Logger
}

type NotificationControllerInterface interface {
	List(ctx context.Context, user *User, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, user *User, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, user *User) (int, error)
	UnreadCount(ctx context.Context, user *User) (int64, error)
}

func New(repos repositories.Repository, db database.DB) NotificationControllerInterface {
	return &NotificationController{
		notificationRepo: repos.Notification,
		db:               db,
		log:              logger.New("notificationController"),
	}
}

func (nc *NotificationController) List(ctx context.Context, user *User, unreadOnly bool) ([]*Notification, error) {
	return nc.notificationRepo.ListByUser(ctx, nc.db.SQL, user.ID, unreadOnly)
}

// MarkRead only touches the caller's own notifications; anything else reads
// as missing.
func (nc *NotificationController) MarkRead(ctx context.Context, user *User, notificationID uuid.UUID) error {
	rows, err := nc.notificationRepo.MarkRead(ctx, nc.db.SQL, user.ID, notificationID)
	if err != nil {
		return err
	}

	if rows == 0 {
		return ierr.NotFound("Notification not found")
	}

	return nil
}

func (nc *NotificationController) MarkAllRead(ctx context.Context, user *User) (int, error) {
	rows, err := nc.notificationRepo.MarkAllRead(ctx, nc.db.SQL, user.ID)
	if err != nil {
		return 0, err
	}

	nc.log.Function("MarkAllRead").Debug("Notifications marked read", "userID", user.ID, "count", rows)

	return rows, nil
}

func (nc *NotificationController) UnreadCount(ctx context.Context, user *User) (int64, error) {
	return nc.notificationRepo.UnreadCount(ctx, nc.db.SQL, user.ID)
}
