package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MaxMessageLength         = 5000
	MaxAttachmentsPerMessage = 10
	MaxAttachmentSizeBytes   = 100 * 1024 * 1024
	RedactedMessageContent   = "[removed by moderator]"
)

var AllowedAttachmentMimeTypes = []string{
	"application/pdf",
	"image/png",
	"image/jpeg",
	"image/webp",
}

func IsAllowedAttachmentMime(mimeType string) bool {
	for _, allowed := range AllowedAttachmentMimeTypes {
		if allowed == mimeType {
			return true
		}
	}
	return false
}

type Message struct {
	BaseUUIDModel
	JobID       uuid.UUID                      `gorm:"type:uuid;not null;index:idx_message_job_created" json:"jobId"`
	Job         *Job                           `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"     json:"-"`
	SenderID    uuid.UUID                      `gorm:"type:uuid;not null"                               json:"senderId"`
	ReceiverID  uuid.UUID                      `gorm:"type:uuid;not null;index"                         json:"receiverId"`
	Content     string                         `gorm:"type:text"                                        json:"content"`
	Attachments datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb"                                       json:"attachments"`
	EditedAt    *time.Time                     `gorm:"type:timestamp"                                   json:"editedAt,omitempty"`
	DeletedAt   *time.Time                     `gorm:"type:timestamp"                                   json:"deletedAt,omitempty"`
	DeletedBy   *uuid.UUID                     `gorm:"type:uuid"                                        json:"deletedBy,omitempty"`
	RedactedAt  *time.Time                     `gorm:"type:timestamp"                                   json:"redactedAt,omitempty"`
	RedactedBy  *uuid.UUID                     `gorm:"type:uuid"                                        json:"redactedBy,omitempty"`
}

func (m *Message) IsDeleted() bool {
	return m.DeletedAt != nil
}

func (m *Message) IsRedacted() bool {
	return m.RedactedAt != nil
}

func (m *Message) IsParty(userID uuid.UUID) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

func (m *Message) SoftDelete(by uuid.UUID, at time.Time) {
	m.Content = ""
	m.Attachments = nil
	m.DeletedAt = &at
	m.DeletedBy = &by
}

func (m *Message) Redact(by uuid.UUID, at time.Time) {
	m.Content = RedactedMessageContent
	m.Attachments = nil
	m.RedactedAt = &at
	m.RedactedBy = &by
}

type MessageRead struct {
	MessageID uuid.UUID `gorm:"type:uuid;primaryKey"                             json:"messageId"`
	Message   *Message  `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"                       json:"userId"`
	ReadAt    time.Time `gorm:"not null"                                         json:"readAt"`
}

type ReportStatus string

const (
	ReportStatusOpen     ReportStatus = "OPEN"
	ReportStatusReviewed ReportStatus = "REVIEWED"
	ReportStatusResolved ReportStatus = "RESOLVED"
)

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusOpen, ReportStatusReviewed, ReportStatusResolved:
		return true
	}
	return false
}

type MessageReport struct {
	BaseUUIDModel
	MessageID      uuid.UUID    `gorm:"type:uuid;not null;index"                         json:"messageId"`
	Message        *Message     `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"message,omitempty"`
	ReporterID     uuid.UUID    `gorm:"type:uuid;not null"                               json:"reporterId"`
	Reason         string       `gorm:"type:text;not null"                               json:"reason"`
	Status         ReportStatus `gorm:"type:text;not null;default:'OPEN';index"          json:"status"`
	ReviewedBy     *uuid.UUID   `gorm:"type:uuid"                                        json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time   `gorm:"type:timestamp"                                   json:"reviewedAt,omitempty"`
	ResolutionNote string       `gorm:"type:text"                                        json:"resolutionNote"`
}
