// Package access holds the authorization rules that decide who may see a
// job's private location and who may talk on a job's message channel.
package access

import (
	ierr "maidhub/internal/errors"
	"maidhub/internal/models"

	"github.com/google/uuid"
)

// CanViewPrivateLocation reports whether viewer may see the address and
// coordinates of job. acceptedApplication is whether the viewer holds an
// ACCEPTED application on the job.
func CanViewPrivateLocation(viewer *models.User, job *models.Job, acceptedApplication bool) bool {
	if viewer == nil || job == nil {
		return false
	}

	switch viewer.Role {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return job.ClientID == viewer.ID
	case models.RoleMaid:
		return job.IsAssignedTo(viewer.ID) || acceptedApplication
	}

	return false
}

// RedactJob clears private location fields on job unless the viewer may see them.
func RedactJob(viewer *models.User, job *models.Job, acceptedApplication bool) *models.Job {
	if job != nil && !CanViewPrivateLocation(viewer, job, acceptedApplication) {
		job.RedactPrivateLocation()
	}
	return job
}

// Participants are the two parties allowed to exchange messages on a job.
type Participants struct {
	Job      *models.Job `json:"-"`
	JobID    uuid.UUID   `json:"jobId"`
	ClientID uuid.UUID   `json:"clientId"`
	MaidID   uuid.UUID   `json:"maidId"`
}

func (p *Participants) Includes(userID uuid.UUID) bool {
	return userID == p.ClientID || userID == p.MaidID
}

// Counterpart returns the other participant, or uuid.Nil for a non-participant.
func (p *Participants) Counterpart(userID uuid.UUID) uuid.UUID {
	switch userID {
	case p.ClientID:
		return p.MaidID
	case p.MaidID:
		return p.ClientID
	}
	return uuid.Nil
}

// MessagingParticipants applies the messaging gate. Messaging opens only once
// the job is IN_PROGRESS, has an assigned maid, and that maid's application is
// ACCEPTED. accepted is the assigned maid's application, nil when absent.
func MessagingParticipants(job *models.Job, accepted *models.Application) (*Participants, error) {
	if job == nil {
		return nil, ierr.NotFound("Job not found")
	}

	if job.Status != models.JobStatusInProgress || job.AssignedMaidID == nil {
		return nil, ierr.NotReady("Messaging is available once a maid is assigned and the job is in progress")
	}

	if accepted == nil ||
		accepted.Status != models.ApplicationStatusAccepted ||
		accepted.JobID != job.ID ||
		accepted.MaidID != *job.AssignedMaidID {
		return nil, ierr.NotReady("Messaging is available once the maid's application is accepted")
	}

	return &Participants{
		Job:      job,
		JobID:    job.ID,
		ClientID: job.ClientID,
		MaidID:   *job.AssignedMaidID,
	}, nil
}

// RequireParticipant passes admins and the two participants.
func RequireParticipant(viewer *models.User, participants *Participants) error {
	if viewer.IsAdmin() || participants.Includes(viewer.ID) {
		return nil
	}
	return ierr.Forbidden("You are not a participant in this conversation")
}
