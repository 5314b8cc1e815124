package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const WorkDateLayout = "2006-01-02"

type JobStatus string

const (
	JobStatusOpen       JobStatus = "OPEN"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusCancelled  JobStatus = "CANCELLED"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusOpen:       {JobStatusInProgress, JobStatusCancelled},
	JobStatusInProgress: {JobStatusCompleted, JobStatusCancelled},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// COMPLETED and CANCELLED are terminal.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentType string

const (
	PaymentTypeFixed  PaymentType = "FIXED"
	PaymentTypeHourly PaymentType = "HOURLY"
)

type Job struct {
	BaseUUIDModel
	ClientID uuid.UUID `gorm:"type:uuid;not null;index"   json:"clientId"`
	Client   *User     `gorm:"foreignKey:ClientID"        json:"client,omitempty"`

	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Area        string `gorm:"type:text;not null" json:"area"`

	// Private location, see access.CanViewPrivateLocation
	Address   *string  `gorm:"type:text"             json:"address"`
	Latitude  *float64 `gorm:"type:double precision" json:"latitude"`
	Longitude *float64 `gorm:"type:double precision" json:"longitude"`
	PlaceID   *string  `gorm:"type:text"             json:"placeId"`

	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"        json:"price"`
	PaymentType PaymentType     `gorm:"type:text;not null;default:'FIXED'" json:"paymentType"`
	Rooms       int             `gorm:"type:int;not null;default:0"        json:"rooms"`
	Bathrooms   int             `gorm:"type:int;not null;default:0"        json:"bathrooms"`
	AreaSize    *int            `gorm:"type:int"                           json:"areaSize,omitempty"`

	WorkDate  *time.Time                  `gorm:"type:date"  json:"workDate,omitempty"`
	WorkDates datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"workDates"`

	Status         JobStatus  `gorm:"type:text;not null;default:'OPEN';index" json:"status"`
	AssignedMaidID *uuid.UUID `gorm:"type:uuid;index"                         json:"assignedMaidId,omitempty"`
	AssignedMaid   *User      `gorm:"foreignKey:AssignedMaidID"               json:"assignedMaid,omitempty"`
	CompletedAt    *time.Time `gorm:"type:timestamp"                          json:"completedAt,omitempty"`
	CancelledAt    *time.Time `gorm:"type:timestamp"                          json:"cancelledAt,omitempty"`
}

// IsEditable reports whether job content may still change. Anything past OPEN is locked.
func (j *Job) IsEditable() bool {
	return j.Status == JobStatusOpen
}

func (j *Job) IsAssignedTo(userID uuid.UUID) bool {
	return j.AssignedMaidID != nil && *j.AssignedMaidID == userID
}

// LatestWorkDate returns the last scheduled day of the job: the maximum of
// WorkDates when any parse, otherwise WorkDate.
func (j *Job) LatestWorkDate() (time.Time, bool) {
	var latest time.Time
	found := false

	for _, raw := range j.WorkDates {
		day, err := time.Parse(WorkDateLayout, raw)
		if err != nil {
			continue
		}
		if !found || day.After(latest) {
			latest = day
			found = true
		}
	}

	if found {
		return latest, true
	}

	if j.WorkDate != nil {
		d := j.WorkDate.UTC()
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}

// IsOverdue reports whether an in-progress job's latest work date is strictly
// before the UTC calendar day of now.
func (j *Job) IsOverdue(now time.Time) bool {
	if j.Status != JobStatusInProgress {
		return false
	}

	latest, ok := j.LatestWorkDate()
	if !ok {
		return false
	}

	n := now.UTC()
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	return latest.Before(today)
}

// RedactPrivateLocation clears the private location fields in place.
func (j *Job) RedactPrivateLocation() {
	j.Address = nil
	j.Latitude = nil
	j.Longitude = nil
	j.PlaceID = nil
}

type JobHistory struct {
	BaseUUIDModel
	JobID     uuid.UUID  `gorm:"type:uuid;not null;index"                     json:"jobId"`
	Job       *Job       `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	Status    JobStatus  `gorm:"type:text;not null"                           json:"status"`
	Note      string     `gorm:"type:text"                                    json:"note"`
	ChangedBy *uuid.UUID `gorm:"type:uuid"                                    json:"changedBy,omitempty"`
}

type Rating struct {
	BaseUUIDModel
	JobID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_job_rater" json:"jobId"`
	Job     *Job      `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"        json:"-"`
	RaterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_job_rater" json:"raterId"`
	RateeID uuid.UUID `gorm:"type:uuid;not null;index"                            json:"rateeId"`
	Score   int       `gorm:"type:int;not null"                                   json:"score"`
	Comment string    `gorm:"type:text"                                           json:"comment"`
}
