package access

import (
	"testing"

	ierr "maidhub/internal/errors"
	"maidhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	client *models.User
	maid   *models.User
	other  *models.User
	admin  *models.User
	job    *models.Job
}

func newFixture(status models.JobStatus, assign bool) fixture {
	f := fixture{
		client: &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Role: models.RoleClient},
		maid:   &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Role: models.RoleMaid},
		other:  &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Role: models.RoleMaid},
		admin:  &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Role: models.RoleAdmin},
	}

	address := "Ilica 1"
	f.job = &models.Job{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		ClientID:      f.client.ID,
		Status:        status,
		Address:       &address,
	}
	if assign {
		f.job.AssignedMaidID = &f.maid.ID
	}

	return f
}

func acceptedFor(job *models.Job, maidID uuid.UUID) *models.Application {
	return &models.Application{
		JobID:  job.ID,
		MaidID: maidID,
		Status: models.ApplicationStatusAccepted,
	}
}

func TestCanViewPrivateLocation(t *testing.T) {
	f := newFixture(models.JobStatusInProgress, true)
	otherClient := &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Role: models.RoleClient}

	tests := []struct {
		name     string
		viewer   *models.User
		accepted bool
		expected bool
	}{
		{"owning client", f.client, false, true},
		{"other client", otherClient, false, false},
		{"assigned maid", f.maid, false, true},
		{"unrelated maid", f.other, false, false},
		{"maid with accepted application", f.other, true, true},
		{"admin", f.admin, false, true},
		{"anonymous", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanViewPrivateLocation(tt.viewer, f.job, tt.accepted))
		})
	}
}

func TestRedactJob(t *testing.T) {
	f := newFixture(models.JobStatusOpen, false)

	redacted := RedactJob(f.other, f.job, false)
	assert.Nil(t, redacted.Address)

	f = newFixture(models.JobStatusOpen, false)
	visible := RedactJob(f.client, f.job, false)
	require.NotNil(t, visible.Address)
	assert.Equal(t, "Ilica 1", *visible.Address)
}

func TestMessagingParticipants(t *testing.T) {
	t.Run("missing job", func(t *testing.T) {
		_, err := MessagingParticipants(nil, nil)
		assert.True(t, ierr.IsNotFound(err))
	})

	t.Run("open job is never ready", func(t *testing.T) {
		f := newFixture(models.JobStatusOpen, true)
		_, err := MessagingParticipants(f.job, acceptedFor(f.job, f.maid.ID))
		assert.True(t, ierr.IsNotReady(err))
	})

	t.Run("completed job is not ready", func(t *testing.T) {
		f := newFixture(models.JobStatusCompleted, true)
		_, err := MessagingParticipants(f.job, acceptedFor(f.job, f.maid.ID))
		assert.True(t, ierr.IsNotReady(err))
	})

	t.Run("no assigned maid", func(t *testing.T) {
		f := newFixture(models.JobStatusInProgress, false)
		_, err := MessagingParticipants(f.job, nil)
		assert.True(t, ierr.IsNotReady(err))
	})

	t.Run("application not accepted", func(t *testing.T) {
		f := newFixture(models.JobStatusInProgress, true)
		app := acceptedFor(f.job, f.maid.ID)
		app.Status = models.ApplicationStatusPending
		_, err := MessagingParticipants(f.job, app)
		assert.True(t, ierr.IsNotReady(err))
	})

	t.Run("accepted application belongs to someone else", func(t *testing.T) {
		f := newFixture(models.JobStatusInProgress, true)
		_, err := MessagingParticipants(f.job, acceptedFor(f.job, f.other.ID))
		assert.True(t, ierr.IsNotReady(err))
	})

	t.Run("ready", func(t *testing.T) {
		f := newFixture(models.JobStatusInProgress, true)
		participants, err := MessagingParticipants(f.job, acceptedFor(f.job, f.maid.ID))
		require.NoError(t, err)
		assert.Equal(t, f.client.ID, participants.ClientID)
		assert.Equal(t, f.maid.ID, participants.MaidID)
		assert.Equal(t, f.maid.ID, participants.Counterpart(f.client.ID))
		assert.Equal(t, f.client.ID, participants.Counterpart(f.maid.ID))
		assert.Equal(t, uuid.Nil, participants.Counterpart(f.other.ID))
	})
}

func TestRequireParticipant(t *testing.T) {
	f := newFixture(models.JobStatusInProgress, true)
	participants, err := MessagingParticipants(f.job, acceptedFor(f.job, f.maid.ID))
	require.NoError(t, err)

	assert.NoError(t, RequireParticipant(f.client, participants))
	assert.NoError(t, RequireParticipant(f.maid, participants))
	assert.NoError(t, RequireParticipant(f.admin, participants))
	assert.True(t, ierr.IsForbidden(RequireParticipant(f.other, participants)))
}
