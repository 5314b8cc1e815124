package messageController

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"maidhub/config"
	ierr "maidhub/internal/errors"
	"maidhub/internal/events"
	"maidhub/internal/models"
	"maidhub/internal/repositories/mocks"
	"maidhub/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var anyArg = mock.Anything

type fakeStore struct {
	failFor string
}

func (f *fakeStore) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	return nil
}

func (f *fakeStore) SignedURL(ctx context.Context, key string) (string, error) {
	if key == f.failFor {
		return "", errors.New("signing failed")
	}
	return "https://files.test/" + key + "?sig=1", nil
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) types() []events.MessageType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]events.MessageType, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

type fixture struct {
	controller MessageControllerInterface
	repos      *mocks.Repositories
	sqlMock    sqlmock.Sqlmock
	store      *fakeStore
	published  *recorder
	client     *models.User
	maid       *models.User
	admin      *models.User
	outsider   *models.User
	job        *models.Job
}

func newFixture(t *testing.T, status models.JobStatus) *fixture {
	db, sqlMock := testutil.NewMockDB(t)
	repos := mocks.NewRepositories()

	services := testutil.NewServices(db, repos.Repository())
	store := &fakeStore{}
	services.Storage = store

	bus := events.New(nil)
	published := &recorder{}
	require.NoError(t, bus.Subscribe(events.JOB_CHANNEL, published.handle))

	f := &fixture{
		controller: New(repos.Repository(), services, bus, config.Config{}, db),
		repos:      repos,
		sqlMock:    sqlMock,
		store:      store,
		published:  published,
		client:     &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Role: models.RoleClient},
		maid:       &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Role: models.RoleMaid},
		admin:      &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Role: models.RoleAdmin},
		outsider:   &models.User{BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()}, Role: models.RoleMaid},
	}

	f.job = &models.Job{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		ClientID:      f.client.ID,
		Status:        status,
	}

	repos.Job.On("GetByID", anyArg, anyArg, f.job.ID).Return(f.job, nil).Maybe()

	return f
}

// assign puts the job in the messaging-ready state.
func (f *fixture) assign() {
	f.job.Status = models.JobStatusInProgress
	f.job.AssignedMaidID = &f.maid.ID
	f.repos.Application.On("FindByJobAndMaid", anyArg, anyArg, f.job.ID, f.maid.ID).Return(&models.Application{
		JobID:  f.job.ID,
		MaidID: f.maid.ID,
		Status: models.ApplicationStatusAccepted,
	}, nil).Maybe()
}

func (f *fixture) message(sender, receiver *models.User) *models.Message {
	return &models.Message{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		JobID:         f.job.ID,
		SenderID:      sender.ID,
		ReceiverID:    receiver.ID,
		Content:       "See you Monday",
	}
}

func TestSend_OpenJobIsNotReady(t *testing.T) {
	f := newFixture(t, models.JobStatusOpen)

	for _, sender := range []*models.User{f.client, f.maid, f.outsider, f.admin} {
		for _, req := range []*SendMessageRequest{{Content: "hello"}, {Content: "   "}} {
			_, err := f.controller.Send(context.Background(), sender, f.job.ID, req)
			assert.True(t, ierr.IsNotReady(err), "sender %s content %q", sender.Role, req.Content)
		}
	}
	f.repos.Message.AssertNotCalled(t, "Create", anyArg, anyArg, anyArg)
}

func TestSend_AdminIsForbiddenOnReadyJob(t *testing.T) {
	f := newFixture(t, models.JobStatusInProgress)
	f.assign()

	_, err := f.controller.Send(context.Background(), f.admin, f.job.ID, &SendMessageRequest{Content: "hello"})

	assert.True(t, ierr.IsForbidden(err))
	f.repos.Message.AssertNotCalled(t, "Create", anyArg, anyArg, anyArg)
}

func TestSend_OutsiderIsForbidden(t *testing.T) {
	f := newFixture(t, models.JobStatusInProgress)
	f.assign()

	_, err := f.controller.Send(context.Background(), f.outsider, f.job.ID, &SendMessageRequest{Content: "hello"})

	assert.True(t, ierr.IsForbidden(err))
}

func TestSend_DefaultsReceiverAndPublishes(t *testing.T) {
	f := newFixture(t, models.JobStatusInProgress)
	f.assign()

	f.repos.Message.On("Create", anyArg, anyArg, mock.AnythingOfType("*models.Message")).
		Run(func(args mock.Arguments) { args.Get(2).(*models.Message).ID = uuid.New() }).
		Return(nil)
	f.repos.Message.On("ReadMessageIDs", anyArg, anyArg, f.client.ID, anyArg).Return([]uuid.UUID{}, nil)

	view, err := f.controller.Send(context.Background(), f.maid, f.job.ID, &SendMessageRequest{Content: "  On my way  "})

	require.NoError(t, err)
	assert.Equal(t, f.client.ID, view.ReceiverID)
	assert.Equal(t, "On my way", view.Content)
	assert.False(t, view.IsRead)
	assert.Equal(t, []events.MessageType{events.MESSAGE_CREATED}, f.published.types())
	require.NotNil(t, f.published.events[0].JobID)
	assert.Equal(t, f.job.ID, *f.published.events[0].JobID)
}

func TestSend_Validation(t *testing.T) {
	long := make([]rune, models.MaxMessageLength+1)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name string
		req  *SendMessageRequest
	}{
		{"empty message", &SendMessageRequest{Content: "   "}},
		{"too long", &SendMessageRequest{Content: string(long)}},
		{"too many attachments", &SendMessageRequest{AttachmentIDs: make([]uuid.UUID, 11)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, models.JobStatusInProgress)
			f.assign()

			_, err := f.controller.Send(context.Background(), f.client, f.job.ID, tt.req)
			assert.True(t, ierr.IsValidation(err))
		})
	}

	t.Run("sender cannot be receiver", func(t *testing.T) {
		f := newFixture(t, models.JobStatusInProgress)
		f.assign()

		_, err := f.controller.Send(context.Background(), f.client, f.job.ID, &SendMessageRequest{
			ReceiverID: &f.client.ID,
			Content:    "note to self",
		})
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestSend_AttachmentChecks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(file *models.UserFile)
		found  bool
	}{
		{"missing file", func(file *models.UserFile) {}, false},
		{"not owned", func(file *models.UserFile) { file.OwnerID = uuid.New() }, true},
		{"bad mime", func(file *models.UserFile) { file.MimeType = "application/zip" }, true},
		{"too large", func(file *models.UserFile) {
			file.SizeBytes = models.MaxAttachmentSizeBytes + 1
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, models.JobStatusInProgress)
			f.assign()

			file := &models.UserFile{
				BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
				OwnerID:       f.client.ID,
				FileName:      "quote.pdf",
				MimeType:      "application/pdf",
				SizeBytes:     1024,
			}
			tt.mutate(file)

			files := []*models.UserFile{}
			if tt.found {
				files = append(files, file)
			}
			f.repos.File.On("GetByIDs", anyArg, anyArg, []uuid.UUID{file.ID}).Return(files, nil)

			_, err := f.controller.Send(context.Background(), f.client, f.job.ID, &SendMessageRequest{
				AttachmentIDs: []uuid.UUID{file.ID},
			})
			assert.True(t, ierr.IsValidation(err), "got %v", err)
			f.repos.Message.AssertNotCalled(t, "Create", anyArg, anyArg, anyArg)
		})
	}
}

func TestList_ResolvesAttachmentsAndReadState(t *testing.T) {
	f := newFixture(t, models.JobStatusInProgress)
	f.assign()

	file := &models.UserFile{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		OwnerID:       f.client.ID,
		ObjectKey:     "users/a/b.pdf",
		FileName:      "quote.pdf",
		MimeType:      "application/pdf",
	}
	first := f.message(f.client, f.maid)
	first.Attachments = []uuid.UUID{file.ID}
	second := f.message(f.maid, f.client)

	f.repos.Message.On("ListByJob", anyArg, anyArg, f.job.ID).Return([]*models.Message{first, second}, nil)
	f.repos.File.On("GetByIDs", anyArg, anyArg, []uuid.UUID{file.ID}).Return([]*models.UserFile{file}, nil)
	f.repos.Message.On("ReadMessageIDs", anyArg, anyArg, f.maid.ID, []uuid.UUID{first.ID}).Return([]uuid.UUID{first.ID}, nil)
	f.repos.Message.On("ReadMessageIDs", anyArg, anyArg, f.client.ID, []uuid.UUID{second.ID}).Return([]uuid.UUID{}, nil)

	views, err := f.controller.List(context.Background(), f.client, f.job.ID)

	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Len(t, views[0].Attachments, 1)
	assert.Equal(t, "https://files.test/users/a/b.pdf?sig=1", views[0].Attachments[0].URL)
	assert.True(t, views[0].IsRead)
	assert.False(t, views[1].IsRead)
	assert.Equal(t, "users/a/b.pdf", file.ObjectKey)
}

func TestList_AdminBypassesGate(t *testing.T) {
	f := newFixture(t, models.JobStatusCompleted)

	f.repos.Message.On("ListByJob", anyArg, anyArg, f.job.ID).Return([]*models.Message{}, nil)

	views, err := f.controller.List(context.Background(), f.admin, f.job.ID)

	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = f.controller.List(context.Background(), f.client, f.job.ID)
	assert.True(t, ierr.IsNotReady(err))
}

func TestEdit(t *testing.T) {
	t.Run("sender edits", func(t *testing.T) {
		f := newFixture(t, models.JobStatusInProgress)
		message := f.message(f.client, f.maid)

		testutil.ExpectTransaction(f.sqlMock, true)
		f.repos.Message.On("GetForUpdate", anyArg, anyArg, message.ID).Return(message, nil)
		f.repos.Message.On("Save", anyArg, anyArg, message).Return(nil)
		f.repos.Message.On("ReadMessageIDs", anyArg, anyArg, f.maid.ID, anyArg).Return([]uuid.UUID{}, nil)

		view, err := f.controller.Edit(context.Background(), f.client, message.ID, &EditMessageRequest{Content: "See you Tuesday"})

		require.NoError(t, err)
		assert.Equal(t, "See you Tuesday", view.Content)
		assert.NotNil(t, view.EditedAt)
		assert.Equal(t, []events.MessageType{events.MESSAGE_UPDATED}, f.published.types())
	})

	t.Run("receiver cannot edit", func(t *testing.T) {
		f := newFixture(t, models.JobStatusInProgress)
		message := f.message(f.client, f.maid)

		testutil.ExpectTransaction(f.sqlMock, false)
		f.repos.Message.On("GetForUpdate", anyArg, anyArg, message.ID).Return(message, nil)

		_, err := f.controller.Edit(context.Background(), f.maid, message.ID, &EditMessageRequest{Content: "changed"})

		assert.True(t, ierr.IsForbidden(err))
		assert.Equal(t, "See you Monday", message.Content)
		assert.Empty(t, f.published.types())
	})

	t.Run("deleted message", func(t *testing.T) {
		f := newFixture(t, models.JobStatusInProgress)
		message := f.message(f.client, f.maid)
		message.SoftDelete(f.client.ID, message.CreatedAt)

		testutil.ExpectTransaction(f.sqlMock, false)
		f.repos.Message.On("GetForUpdate", anyArg, anyArg, message.ID).Return(message, nil)

		_, err := f.controller.Edit(context.Background(), f.client, message.ID, &EditMessageRequest{Content: "changed"})

		assert.True(t, ierr.IsInvalidState(err))
	})

	t.Run("redacted message stays redacted", func(t *testing.T) {
		f := newFixture(t, models.JobStatusInProgress)
		message := f.message(f.maid, f.client)
		message.Redact(f.admin.ID, message.CreatedAt)

		for _, editor := range []*models.User{f.maid, f.admin} {
			testutil.ExpectTransaction(f.sqlMock, false)
			f.repos.Message.On("GetForUpdate", anyArg, anyArg, message.ID).Return(message, nil)

			_, err := f.controller.Edit(context.Background(), editor, message.ID, &EditMessageRequest{Content: "the removed text"})

			assert.True(t, ierr.IsInvalidState(err))
		}
		assert.Equal(t, models.RedactedMessageContent, message.Content)
		assert.Nil(t, message.EditedAt)
		f.repos.Message.AssertNotCalled(t, "Save", anyArg, anyArg, anyArg)
		assert.Empty(t, f.published.types())
	})
}

func TestDelete(t *testing.T) {
	f := newFixture(t, models.JobStatusInProgress)
	message := f.message(f.client, f.maid)
	message.Attachments = []uuid.UUID{uuid.New()}

	testutil.ExpectTransaction(f.sqlMock, true)
	testutil.ExpectTransaction(f.sqlMock, false)
	f.repos.Message.On("GetForUpdate", anyArg, anyArg, message.ID).Return(message, nil)
	f.repos.Message.On("Save", anyArg, anyArg, message).Return(nil).Once()
	f.repos.Message.On("ReadMessageIDs", anyArg, anyArg, f.maid.ID, anyArg).Return([]uuid.UUID{}, nil)

	view, err := f.controller.Delete(context.Background(), f.client, message.ID)

	require.NoError(t, err)
	assert.Empty(t, view.Content)
	assert.Empty(t, view.Attachments)
	require.NotNil(t, view.DeletedBy)
	assert.Equal(t, f.client.ID, *view.DeletedBy)

	_, err = f.controller.Delete(context.Background(), f.client, message.ID)
	assert.True(t, ierr.IsInvalidState(err))
	assert.Equal(t, []events.MessageType{events.MESSAGE_DELETED}, f.published.types())
	assert.NoError(t, f.sqlMock.ExpectationsWereMet())
}

func TestRedact(t *testing.T) {
	f := newFixture(t, models.JobStatusInProgress)
	message := f.message(f.maid, f.client)

	_, err := f.controller.Redact(context.Background(), f.client, message.ID)
	assert.True(t, ierr.IsForbidden(err))

	testutil.ExpectTransaction(f.sqlMock, true)
	f.repos.Message.On("GetForUpdate", anyArg, anyArg, message.ID).Return(message, nil)
	f.repos.Message.On("Save", anyArg, anyArg, message).Return(nil)
	f.repos.Message.On("ReadMessageIDs", anyArg, anyArg, f.client.ID, anyArg).Return([]uuid.UUID{}, nil)

	view, err := f.controller.Redact(context.Background(), f.admin, message.ID)

	require.NoError(t, err)
	assert.Equal(t, models.RedactedMessageContent, view.Content)
	assert.Equal(t, []events.MessageType{events.MESSAGE_UPDATED}, f.published.types())
}

func TestMarkAllRead_IsIdempotent(t *testing.T) {
	f := newFixture(t, models.JobStatusInProgress)
	f.assign()
	unread := []uuid.UUID{uuid.New(), uuid.New()}

	f.repos.Message.On("UnreadIDs", anyArg, anyArg, f.job.ID, f.client.ID).Return(unread, nil).Once()
	f.repos.Message.On("MarkRead", anyArg, anyArg, f.client.ID, unread, anyArg).Return(unread, nil).Once()
	f.repos.Message.On("UnreadIDs", anyArg, anyArg, f.job.ID, f.client.ID).Return([]uuid.UUID{}, nil).Once()

	first, err := f.controller.MarkAllRead(context.Background(), f.client, f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, unread, first)

	second, err := f.controller.MarkAllRead(context.Background(), f.client, f.job.ID)
	require.NoError(t, err)
	assert.Empty(t, second)

	require.Equal(t, []events.MessageType{events.MESSAGE_READ}, f.published.types())
	assert.Equal(t, f.client.ID.String(), f.published.events[0].Data["readerId"])
}

func TestMarkRead_ReceiverOnly(t *testing.T) {
	f := newFixture(t, models.JobStatusInProgress)
	message := f.message(f.client, f.maid)

	f.repos.Message.On("GetByID", anyArg, anyArg, message.ID).Return(message, nil)
	f.repos.Message.On("MarkRead", anyArg, anyArg, f.maid.ID, []uuid.UUID{message.ID}, anyArg).Return([]uuid.UUID{}, nil)

	assert.True(t, ierr.IsForbidden(f.controller.MarkRead(context.Background(), f.client, message.ID)))
	assert.True(t, ierr.IsForbidden(f.controller.MarkRead(context.Background(), f.admin, message.ID)))
	assert.NoError(t, f.controller.MarkRead(context.Background(), f.maid, message.ID))
	assert.Empty(t, f.published.types())
}

func TestReport(t *testing.T) {
	f := newFixture(t, models.JobStatusInProgress)
	message := f.message(f.client, f.maid)

	f.repos.Message.On("GetByID", anyArg, anyArg, message.ID).Return(message, nil)
	f.repos.Report.On("Create", anyArg, anyArg, mock.AnythingOfType("*models.MessageReport")).Return(nil)

	_, err := f.controller.Report(context.Background(), f.maid, message.ID, &ReportRequest{Reason: "no"})
	assert.True(t, ierr.IsValidation(err))

	_, err = f.controller.Report(context.Background(), f.outsider, message.ID, &ReportRequest{Reason: "Rude language"})
	assert.True(t, ierr.IsForbidden(err))

	report, err := f.controller.Report(context.Background(), f.maid, message.ID, &ReportRequest{Reason: "Rude language"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusOpen, report.Status)
	assert.Equal(t, f.maid.ID, report.ReporterID)
}

func TestAuthorizeSubscription(t *testing.T) {
	f := newFixture(t, models.JobStatusOpen)

	assert.NoError(t, f.controller.AuthorizeSubscription(context.Background(), f.admin, f.job.ID))
	assert.True(t, ierr.IsNotReady(f.controller.AuthorizeSubscription(context.Background(), f.client, f.job.ID)))

	f.assign()
	assert.NoError(t, f.controller.AuthorizeSubscription(context.Background(), f.client, f.job.ID))
	assert.NoError(t, f.controller.AuthorizeSubscription(context.Background(), f.maid, f.job.ID))
	assert.True(t, ierr.IsForbidden(f.controller.AuthorizeSubscription(context.Background(), f.outsider, f.job.ID)))
}
