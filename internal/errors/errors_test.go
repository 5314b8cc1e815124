package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", NotFound("job not found"), http.StatusNotFound},
		{"forbidden", Forbidden("not the owner"), http.StatusForbidden},
		{"locked", Locked("job is locked"), http.StatusLocked},
		{"invalid state", InvalidState("already decided"), http.StatusConflict},
		{"validation", Validation("title is required"), http.StatusBadRequest},
		{"not ready", NotReady("messaging not available"), http.StatusConflict},
		{
			"invalid credentials",
			NewError("bad password").Mark(ErrInvalidCredentials),
			http.StatusUnauthorized,
		},
		{"upstream", NewError("timeout").Mark(ErrUpstream), http.StatusBadGateway},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError},
		{
			"wrapped marked error",
			fmt.Errorf("update job: %w", Locked("job is locked")),
			http.StatusLocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestHint(t *testing.T) {
	assert.Equal(t, "Job not found", Hint(NotFound("Job not found")))
	assert.Equal(t, ErrInternal.Message, Hint(stderrors.New("pq: connection refused")))
	assert.Equal(
		t,
		ErrForbidden.Message,
		Hint(NewError("internal detail").Mark(ErrForbidden)),
	)
}

func TestCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotReady, Code(NotReady("not ready")))
	assert.Equal(t, ErrCodeInternal, Code(stderrors.New("boom")))
}

func TestIsHelpers(t *testing.T) {
	err := WithError(stderrors.New("record not found")).
		WithHint("Message not found").
		Mark(ErrNotFound)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsForbidden(err))
	assert.True(t, IsLocked(Locked("locked")))
	assert.True(t, IsInvalidState(InvalidState("bad")))
	assert.True(t, IsValidation(Validation("bad")))
	assert.True(t, IsNotReady(NotReady("later")))
}

type pgError string

func (e pgError) Error() string    { return "pg: " + string(e) }
func (e pgError) SQLState() string { return string(e) }

func TestSQLState(t *testing.T) {
	wrapped := WithError(pgError(SQLStateUniqueViolation)).WithHint("duplicate").Mark(ErrAlreadyExists)

	assert.Equal(t, SQLStateUniqueViolation, SQLState(wrapped))
	assert.Equal(t, SQLStateDeadlockDetected, SQLState(pgError(SQLStateDeadlockDetected)))
	assert.Empty(t, SQLState(stderrors.New("boom")))
	assert.Empty(t, SQLState(nil))
}
