package services

import (
	"context"
	"fmt"

	"maidhub/internal/models"
	"maidhub/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification texts written by lifecycle transitions.
const (
	NoticeJobPosted           = "Your job %q has been posted"
	NoticeApplicationReceived = "%s applied to your job %q"
	NoticeApplicationAccepted = "Your application for %q was accepted"
	NoticeApplicationRejected = "Your application for %q was rejected"
	NoticeApplicationClosed   = "Another maid was selected for %q"
	NoticeMaidAssigned        = "%s is now assigned to your job %q"
	NoticeJobCancelled        = "The job %q was cancelled"
)

// NotifierService writes notifications inside the caller's transaction so
// they commit or roll back with the transition that produced them.
type NotifierService struct {
	notifications repositories.NotificationRepository
	log           logger.Logger
}

func NewNotifierService(notifications repositories.NotificationRepository) *NotifierService {
	return &NotifierService{
		notifications: notifications,
		log:           logger.New("NotifierService"),
	}
}

func (s *NotifierService) Notify(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	jobID *uuid.UUID,
	kind models.NotificationType,
	format string,
	args ...any,
) error {
	notification := &models.Notification{
		UserID:  userID,
		JobID:   jobID,
		Type:    kind,
		Message: fmt.Sprintf(format, args...),
	}

	if err := s.notifications.Create(ctx, tx, notification); err != nil {
		return s.log.Function("Notify").Err("failed to write notification", err, "userID", userID, "type", kind)
	}

	return nil
}
