package repositories

import (
	"context"
	"net/http"
	"testing"
	"time"

	ierr "maidhub/internal/errors"
	"maidhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type pgError string

func (e pgError) Error() string    { return "pg: " + string(e) }
func (e pgError) SQLState() string { return string(e) }

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	gormDB, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(pgError(ierr.SQLStateUniqueViolation))
	mock.ExpectRollback()

	repo := NewUserRepository(nil)
	err := repo.Create(context.Background(), gormDB, &models.User{Email: "iva@example.com"})

	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrAlreadyExists))
	assert.Equal(t, http.StatusConflict, ierr.HTTPStatus(err))
	assert.Equal(t, "An account with this email already exists", ierr.Hint(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuplicateEmailErr_OnlyForUniqueViolation(t *testing.T) {
	assert.True(t, ierr.Is(duplicateEmailErr(pgError(ierr.SQLStateUniqueViolation)), ierr.ErrAlreadyExists))
	assert.NotEqual(t, ierr.SQLStateUniqueViolation, ierr.SQLState(pgError("23503")))
}

func TestMessageRepository_UnreadIDs_SkipsDeleted(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	jobID, userID := uuid.New(), uuid.New()
	unread := uuid.New()

	mock.ExpectQuery(`receiver_id = \$2 AND deleted_at IS NULL`).
		WithArgs(jobID, userID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(unread.String()))

	ids, err := NewMessageRepository().UnreadIDs(context.Background(), gormDB, jobID, userID)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{unread}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_ListOverdue_FiltersInSQL(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	id := uuid.New()
	today := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT id, status, work_date, work_dates FROM "jobs" WHERE status = \$1 AND .*jsonb_array_elements_text.*< \$2`).
		WithArgs(string(models.JobStatusInProgress), "2025-06-15").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "work_date", "work_dates"}).
			AddRow(id.String(), string(models.JobStatusInProgress), nil, []byte(`["2025-06-01","2025-06-14"]`)))

	jobs, err := NewJobRepository().ListOverdue(context.Background(), gormDB, today)

	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, id, jobs[0].ID)
	assert.True(t, jobs[0].IsOverdue(today))
	assert.NoError(t, mock.ExpectationsWereMet())
}
