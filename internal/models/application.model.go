package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDING"
	ApplicationStatusAccepted ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) IsDecision() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

type Application struct {
	BaseUUIDModel
	JobID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_maid" json:"jobId"`
	Job       *Job              `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"            json:"job,omitempty"`
	MaidID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_maid" json:"maidId"`
	Maid      *User             `gorm:"foreignKey:MaidID"                                       json:"maid,omitempty"`
	Message   string            `gorm:"type:text"                                               json:"message"`
	Status    ApplicationStatus `gorm:"type:text;not null;default:'PENDING';index"              json:"status"`
	DecidedAt *time.Time        `gorm:"type:timestamp"                                          json:"decidedAt,omitempty"`
}

func (a *Application) IsPending() bool {
	return a.Status == ApplicationStatusPending
}
