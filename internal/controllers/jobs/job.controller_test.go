package jobController

import (
	"context"
	"testing"

	"maidhub/config"
	ierr "maidhub/internal/errors"
	"maidhub/internal/models"
	"maidhub/internal/repositories"
	"maidhub/internal/repositories/mocks"
	"maidhub/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var anyArg = mock.Anything

func newTestController(t *testing.T) (JobControllerInterface, *mocks.Repositories, sqlmock.Sqlmock) {
	db, sqlMock := testutil.NewMockDB(t)
	repos := mocks.NewRepositories()

	controller := New(repos.Repository(), testutil.NewServices(db, repos.Repository()), config.Config{}, db)

	return controller, repos, sqlMock
}

func newUser(role models.UserRole) *models.User {
	return &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Role: role, FirstName: "Ana"}
}

func newJob(client *models.User, status models.JobStatus) *models.Job {
	address := "Ilica 1"
	return &models.Job{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		ClientID:      client.ID,
		Title:         "Spring clean",
		Address:       &address,
		Status:        status,
		WorkDates:     []string{"2099-01-01"},
	}
}

func validCreateRequest() *CreateJobRequest {
	return &CreateJobRequest{
		Title:       "Spring clean",
		Description: "Two bedroom flat",
		Area:        "Tresnjevka",
		Price:       decimal.NewFromInt(60),
		PaymentType: models.PaymentTypeFixed,
		Rooms:       2,
		Bathrooms:   1,
		WorkDates:   []string{"2099-01-02", " 2099-01-01", "2099-01-02"},
	}
}

func TestCreate_OnlyClients(t *testing.T) {
	controller, repos, _ := newTestController(t)

	_, err := controller.Create(context.Background(), newUser(models.RoleMaid), validCreateRequest())

	assert.True(t, ierr.IsForbidden(err))
	repos.Job.AssertNotCalled(t, "Create", anyArg, anyArg, anyArg)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CreateJobRequest)
	}{
		{"missing title", func(r *CreateJobRequest) { r.Title = "" }},
		{"zero price", func(r *CreateJobRequest) { r.Price = decimal.Zero }},
		{"bad payment type", func(r *CreateJobRequest) { r.PaymentType = "BARTER" }},
		{"negative rooms", func(r *CreateJobRequest) { r.Rooms = -1 }},
		{"bad work date", func(r *CreateJobRequest) { r.WorkDates = []string{"01/02/2099"} }},
		{"no work date", func(r *CreateJobRequest) { r.WorkDates = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, _, _ := newTestController(t)
			req := validCreateRequest()
			tt.mutate(req)

			_, err := controller.Create(context.Background(), newUser(models.RoleClient), req)
			assert.True(t, ierr.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestCreate_Success(t *testing.T) {
	controller, repos, sqlMock := newTestController(t)
	client := newUser(models.RoleClient)

	testutil.ExpectTransaction(sqlMock, true)
	repos.Job.On("Create", anyArg, anyArg, mock.AnythingOfType("*models.Job")).Return(nil)
	repos.History.On("Append", anyArg, anyArg, mock.MatchedBy(func(h *models.JobHistory) bool {
		return h.Status == models.JobStatusOpen && h.Note == "Job posted"
	})).Return(nil)
	repos.Notification.On("Create", anyArg, anyArg, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == client.ID && n.Type == models.NotificationInfo
	})).Return(nil)

	job, err := controller.Create(context.Background(), client, validCreateRequest())

	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.Equal(t, client.ID, job.ClientID)
	assert.Equal(t, []string{"2099-01-01", "2099-01-02"}, []string(job.WorkDates))
	repos.Notification.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestList_ClientDefaultsToOpenJobs(t *testing.T) {
	controller, repos, _ := newTestController(t)
	client := newUser(models.RoleClient)
	other := newJob(newUser(models.RoleClient), models.JobStatusOpen)

	repos.Job.On("ListOverdue", anyArg, anyArg, anyArg).Return([]*models.Job{}, nil)
	repos.Job.On("List", anyArg, anyArg, mock.MatchedBy(func(f repositories.JobFilter) bool {
		return f.Status != nil && *f.Status == models.JobStatusOpen && f.ClientID == nil
	})).Return([]*models.Job{other}, nil)

	jobs, err := controller.List(context.Background(), client, ListJobsFilter{})

	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Nil(t, jobs[0].Address)
}

func TestList_MaidSeesAcceptedLocation(t *testing.T) {
	controller, repos, _ := newTestController(t)
	maid := newUser(models.RoleMaid)
	client := newUser(models.RoleClient)
	accepted := newJob(client, models.JobStatusOpen)
	open := newJob(client, models.JobStatusOpen)

	repos.Job.On("ListOverdue", anyArg, anyArg, anyArg).Return([]*models.Job{}, nil)
	repos.Job.On("List", anyArg, anyArg, mock.MatchedBy(func(f repositories.JobFilter) bool {
		return f.MaidID != nil && *f.MaidID == maid.ID
	})).Return([]*models.Job{accepted, open}, nil)
	repos.Application.On("AcceptedJobIDs", anyArg, anyArg, maid.ID, []uuid.UUID{accepted.ID, open.ID}).
		Return([]uuid.UUID{accepted.ID}, nil)

	jobs, err := controller.List(context.Background(), maid, ListJobsFilter{})

	require.NoError(t, err)
	assert.NotNil(t, jobs[0].Address)
	assert.Nil(t, jobs[1].Address)
}

func TestList_UnknownStatus(t *testing.T) {
	controller, _, _ := newTestController(t)
	status := models.JobStatus("PAUSED")

	_, err := controller.List(context.Background(), newUser(models.RoleAdmin), ListJobsFilter{Status: &status})

	assert.True(t, ierr.IsValidation(err))
}

func TestUpdate(t *testing.T) {
	title := "Deep clean"

	t.Run("locked once in progress", func(t *testing.T) {
		controller, repos, sqlMock := newTestController(t)
		client := newUser(models.RoleClient)
		job := newJob(client, models.JobStatusInProgress)

		testutil.ExpectTransaction(sqlMock, false)
		repos.Job.On("GetForUpdate", anyArg, anyArg, job.ID).Return(job, nil)

		_, err := controller.Update(context.Background(), client, job.ID, &UpdateJobRequest{Title: &title})

		assert.True(t, ierr.IsLocked(err))
		assert.Equal(t, "Spring clean", job.Title)
		repos.Job.AssertNotCalled(t, "Save", anyArg, anyArg, anyArg)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("forbidden for other clients", func(t *testing.T) {
		controller, repos, sqlMock := newTestController(t)
		job := newJob(newUser(models.RoleClient), models.JobStatusOpen)

		testutil.ExpectTransaction(sqlMock, false)
		repos.Job.On("GetForUpdate", anyArg, anyArg, job.ID).Return(job, nil)

		_, err := controller.Update(context.Background(), newUser(models.RoleClient), job.ID, &UpdateJobRequest{Title: &title})

		assert.True(t, ierr.IsForbidden(err))
	})

	t.Run("owner edits open job", func(t *testing.T) {
		controller, repos, sqlMock := newTestController(t)
		client := newUser(models.RoleClient)
		job := newJob(client, models.JobStatusOpen)

		testutil.ExpectTransaction(sqlMock, true)
		repos.Job.On("GetForUpdate", anyArg, anyArg, job.ID).Return(job, nil)
		repos.Job.On("Save", anyArg, anyArg, job).Return(nil)

		updated, err := controller.Update(context.Background(), client, job.ID, &UpdateJobRequest{Title: &title})

		require.NoError(t, err)
		assert.Equal(t, "Deep clean", updated.Title)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestComplete(t *testing.T) {
	t.Run("already completed is a no-op", func(t *testing.T) {
		controller, repos, sqlMock := newTestController(t)
		client := newUser(models.RoleClient)
		job := newJob(client, models.JobStatusCompleted)

		testutil.ExpectTransaction(sqlMock, true)
		repos.Job.On("GetForUpdate", anyArg, anyArg, job.ID).Return(job, nil)

		result, err := controller.Complete(context.Background(), client, job.ID)

		require.NoError(t, err)
		assert.Equal(t, models.JobStatusCompleted, result.Status)
		repos.History.AssertNotCalled(t, "Append", anyArg, anyArg, anyArg)
	})

	t.Run("open job cannot be completed", func(t *testing.T) {
		controller, repos, sqlMock := newTestController(t)
		client := newUser(models.RoleClient)
		job := newJob(client, models.JobStatusOpen)

		testutil.ExpectTransaction(sqlMock, false)
		repos.Job.On("GetForUpdate", anyArg, anyArg, job.ID).Return(job, nil)

		_, err := controller.Complete(context.Background(), client, job.ID)

		assert.True(t, ierr.IsInvalidState(err))
	})

	t.Run("assigned maid cannot complete", func(t *testing.T) {
		controller, repos, sqlMock := newTestController(t)
		maid := newUser(models.RoleMaid)
		job := newJob(newUser(models.RoleClient), models.JobStatusInProgress)
		job.AssignedMaidID = &maid.ID

		testutil.ExpectTransaction(sqlMock, false)
		repos.Job.On("GetForUpdate", anyArg, anyArg, job.ID).Return(job, nil)

		_, err := controller.Complete(context.Background(), maid, job.ID)

		assert.True(t, ierr.IsForbidden(err))
	})

	t.Run("client completes job in progress", func(t *testing.T) {
		controller, repos, sqlMock := newTestController(t)
		client := newUser(models.RoleClient)
		job := newJob(client, models.JobStatusInProgress)

		testutil.ExpectTransaction(sqlMock, true)
		repos.Job.On("GetForUpdate", anyArg, anyArg, job.ID).Return(job, nil)
		repos.Job.On("Save", anyArg, anyArg, job).Return(nil)
		repos.History.On("Append", anyArg, anyArg, mock.MatchedBy(func(h *models.JobHistory) bool {
			return h.Status == models.JobStatusCompleted && h.Note == "Job completed by client"
		})).Return(nil)

		result, err := controller.Complete(context.Background(), client, job.ID)

		require.NoError(t, err)
		assert.Equal(t, models.JobStatusCompleted, result.Status)
		assert.NotNil(t, result.CompletedAt)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestCancel_RejectsPendingApplications(t *testing.T) {
	controller, repos, sqlMock := newTestController(t)
	client := newUser(models.RoleClient)
	job := newJob(client, models.JobStatusOpen)
	pending := []*models.Application{
		{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, JobID: job.ID, MaidID: uuid.New()},
		{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, JobID: job.ID, MaidID: uuid.New()},
	}

	testutil.ExpectTransaction(sqlMock, true)
	repos.Job.On("GetForUpdate", anyArg, anyArg, job.ID).Return(job, nil)
	repos.Job.On("Save", anyArg, anyArg, job).Return(nil)
	repos.History.On("Append", anyArg, anyArg, anyArg).Return(nil)
	repos.Application.On("ListPendingForUpdate", anyArg, anyArg, job.ID, uuid.Nil).Return(pending, nil)
	repos.Application.On("RejectMany", anyArg, anyArg, []uuid.UUID{pending[0].ID, pending[1].ID}, anyArg).Return(nil)
	repos.Notification.On("Create", anyArg, anyArg, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Type == models.NotificationWarning
	})).Return(nil).Twice()

	result, err := controller.Cancel(context.Background(), client, job.ID)

	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCancelled, result.Status)
	repos.Application.AssertExpectations(t)
	repos.Notification.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCancel_CompletedJob(t *testing.T) {
	controller, repos, sqlMock := newTestController(t)
	client := newUser(models.RoleClient)
	job := newJob(client, models.JobStatusCompleted)

	testutil.ExpectTransaction(sqlMock, false)
	repos.Job.On("GetForUpdate", anyArg, anyArg, job.ID).Return(job, nil)

	_, err := controller.Cancel(context.Background(), client, job.ID)

	assert.True(t, ierr.IsInvalidState(err))
}

func TestHistory_Access(t *testing.T) {
	controller, repos, _ := newTestController(t)
	client := newUser(models.RoleClient)
	job := newJob(client, models.JobStatusOpen)

	repos.Job.On("GetByID", anyArg, anyArg, job.ID).Return(job, nil)
	repos.History.On("ListByJob", anyArg, anyArg, job.ID).Return([]*models.JobHistory{{JobID: job.ID}}, nil)

	_, err := controller.History(context.Background(), newUser(models.RoleMaid), job.ID)
	assert.True(t, ierr.IsForbidden(err))

	entries, err := controller.History(context.Background(), client, job.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRate(t *testing.T) {
	t.Run("job must be completed", func(t *testing.T) {
		controller, repos, sqlMock := newTestController(t)
		client := newUser(models.RoleClient)
		job := newJob(client, models.JobStatusInProgress)

		testutil.ExpectTransaction(sqlMock, false)
		repos.Job.On("GetByID", anyArg, anyArg, job.ID).Return(job, nil)

		_, err := controller.Rate(context.Background(), client, job.ID, &RateRequest{Score: 5})

		assert.True(t, ierr.IsInvalidState(err))
	})

	t.Run("one rating per rater", func(t *testing.T) {
		controller, repos, sqlMock := newTestController(t)
		client := newUser(models.RoleClient)
		maid := newUser(models.RoleMaid)
		job := newJob(client, models.JobStatusCompleted)
		job.AssignedMaidID = &maid.ID

		testutil.ExpectTransaction(sqlMock, false)
		repos.Job.On("GetByID", anyArg, anyArg, job.ID).Return(job, nil)
		repos.Rating.On("Exists", anyArg, anyArg, job.ID, client.ID).Return(true, nil)

		_, err := controller.Rate(context.Background(), client, job.ID, &RateRequest{Score: 5})

		assert.True(t, ierr.Is(err, ierr.ErrAlreadyExists))
	})

	t.Run("client rates assigned maid", func(t *testing.T) {
		controller, repos, sqlMock := newTestController(t)
		client := newUser(models.RoleClient)
		maid := newUser(models.RoleMaid)
		maid.Rating = decimal.NewFromInt(4)
		maid.RatingCount = 1
		job := newJob(client, models.JobStatusCompleted)
		job.AssignedMaidID = &maid.ID

		testutil.ExpectTransaction(sqlMock, true)
		repos.Job.On("GetByID", anyArg, anyArg, job.ID).Return(job, nil)
		repos.Rating.On("Exists", anyArg, anyArg, job.ID, client.ID).Return(false, nil)
		repos.User.On("GetForUpdate", anyArg, anyArg, maid.ID).Return(maid, nil)
		repos.User.On("Update", anyArg, anyArg, maid).Return(nil)
		repos.Rating.On("Create", anyArg, anyArg, mock.AnythingOfType("*models.Rating")).Return(nil)

		rating, err := controller.Rate(context.Background(), client, job.ID, &RateRequest{Score: 5})

		require.NoError(t, err)
		assert.Equal(t, maid.ID, rating.RateeID)
		assert.Equal(t, 2, maid.RatingCount)
		assert.True(t, decimal.RequireFromString("4.5").Equal(maid.Rating))
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("score out of range", func(t *testing.T) {
		controller, _, _ := newTestController(t)

		_, err := controller.Rate(context.Background(), newUser(models.RoleClient), uuid.New(), &RateRequest{Score: 6})

		assert.True(t, ierr.IsValidation(err))
	})
}
