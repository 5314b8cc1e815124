package models

import "github.com/google/uuid"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

type Notification struct {
	BaseUUIDModel
	UserID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_notification_user_read" json:"userId"`
	JobID   *uuid.UUID       `gorm:"type:uuid"                                           json:"jobId,omitempty"`
	Message string           `gorm:"type:text;not null"                                  json:"message"`
	Type    NotificationType `gorm:"type:text;not null;default:'info'"                   json:"type"`
	IsRead  bool             `gorm:"type:bool;not null;default:false;index:idx_notification_user_read" json:"isRead"`
}
