package services

import (
	"context"
	"testing"
	"time"

	"maidhub/internal/database"
	ierr "maidhub/internal/errors"
	"maidhub/internal/models"
	"maidhub/internal/repositories/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingRemover struct {
	failing map[string]bool
	removed []string
}

func (r *recordingRemover) RemoveObject(ctx context.Context, key string) error {
	if r.failing[key] {
		return ierr.NewError("remove failed").Mark(ierr.ErrUpstream)
	}
	r.removed = append(r.removed, key)
	return nil
}

func orphanFile(key string) *models.UserFile {
	return &models.UserFile{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		ObjectKey:     key,
		Purpose:       models.FilePurposeAttachment,
	}
}

func TestCleanupOrphanAttachments(t *testing.T) {
	gormDB, _ := setupTestDB(t)
	repos := mocks.NewRepositories()
	remover := &recordingRemover{failing: map[string]bool{"users/b/stuck.pdf": true}}

	service := NewFileCleanupService(database.DB{SQL: gormDB}, repos.File, remover)
	service.now = func() time.Time { return sweepNow }

	gone := orphanFile("users/a/gone.pdf")
	stuck := orphanFile("users/b/stuck.pdf")

	cutoff := sweepNow.Add(-ORPHAN_ATTACHMENT_GRACE)
	repos.File.On("ListOrphanAttachments", mock.Anything, mock.Anything, cutoff, ORPHAN_CLEANUP_BATCH).
		Return([]*models.UserFile{gone, stuck}, nil)
	repos.File.On("Delete", mock.Anything, mock.Anything, gone.ID).Return(nil)

	removed, err := service.CleanupOrphanAttachments(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"users/a/gone.pdf"}, remover.removed)
	repos.File.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, stuck.ID)
}

func TestCleanupOrphanAttachments_ListError(t *testing.T) {
	gormDB, _ := setupTestDB(t)
	repos := mocks.NewRepositories()

	service := NewFileCleanupService(database.DB{SQL: gormDB}, repos.File, &recordingRemover{})
	repos.File.On("ListOrphanAttachments", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	removed, err := service.CleanupOrphanAttachments(context.Background())

	assert.Error(t, err)
	assert.Zero(t, removed)
}
