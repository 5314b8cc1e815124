package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

const (
	ErrCodeNotFound           = "not_found"
	ErrCodeForbidden          = "forbidden"
	ErrCodeLocked             = "locked"
	ErrCodeInvalidState       = "invalid_state"
	ErrCodeValidation         = "validation_error"
	ErrCodeNotReady           = "not_ready"
	ErrCodeUnauthenticated    = "unauthenticated"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeAlreadyExists      = "already_exists"
	ErrCodeUpstream           = "upstream_error"
	ErrCodeInternal           = "internal_error"
)

var (
	ErrNotFound           = newInternal(ErrCodeNotFound, "resource not found")
	ErrForbidden          = newInternal(ErrCodeForbidden, "forbidden")
	ErrLocked             = newInternal(ErrCodeLocked, "resource is locked")
	ErrInvalidState       = newInternal(ErrCodeInvalidState, "invalid state")
	ErrValidation         = newInternal(ErrCodeValidation, "validation error")
	ErrNotReady           = newInternal(ErrCodeNotReady, "not ready")
	ErrUnauthenticated    = newInternal(ErrCodeUnauthenticated, "authentication required")
	ErrInvalidCredentials = newInternal(ErrCodeInvalidCredentials, "invalid credentials")
	ErrAlreadyExists      = newInternal(ErrCodeAlreadyExists, "resource already exists")
	ErrUpstream           = newInternal(ErrCodeUpstream, "upstream service error")
	ErrInternal           = newInternal(ErrCodeInternal, "internal error")

	// ordered so the most specific sentinel wins when an error carries several marks
	sentinels = []*InternalError{
		ErrNotFound,
		ErrForbidden,
		ErrLocked,
		ErrInvalidState,
		ErrValidation,
		ErrNotReady,
		ErrUnauthenticated,
		ErrInvalidCredentials,
		ErrAlreadyExists,
		ErrUpstream,
		ErrInternal,
	}

	statusCodeMap = map[string]int{
		ErrCodeNotFound:           http.StatusNotFound,
		ErrCodeForbidden:          http.StatusForbidden,
		ErrCodeLocked:             http.StatusLocked,
		ErrCodeInvalidState:       http.StatusConflict,
		ErrCodeValidation:         http.StatusBadRequest,
		ErrCodeNotReady:           http.StatusConflict,
		ErrCodeUnauthenticated:    http.StatusUnauthorized,
		ErrCodeInvalidCredentials: http.StatusUnauthorized,
		ErrCodeAlreadyExists:      http.StatusConflict,
		ErrCodeUpstream:           http.StatusBadGateway,
		ErrCodeInternal:           http.StatusInternalServerError,
	}
)

// InternalError is a domain error category. Concrete errors are marked with
// one of the package sentinels and matched with errors.Is.
type InternalError struct {
	Code    string
	Message string
}

func newInternal(code, message string) *InternalError {
	return &InternalError{Code: code, Message: message}
}

func (e *InternalError) Error() string {
	return e.Code + ": " + e.Message
}

func (e *InternalError) Is(target error) bool {
	t, ok := target.(*InternalError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// Postgres SQLSTATE codes the repositories and transactions react to.
const (
	SQLStateUniqueViolation      = "23505"
	SQLStateSerializationFailure = "40001"
	SQLStateDeadlockDetected     = "40P01"
)

// sqlStater is implemented by pgconn.PgError and pq.Error.
type sqlStater interface {
	SQLState() string
}

// SQLState returns the SQLSTATE carried anywhere in err's chain, or "".
func SQLState(err error) string {
	var state sqlStater
	if !errors.As(err, &state) {
		return ""
	}
	return state.SQLState()
}

// Code returns the machine readable code of the first sentinel err is marked with.
func Code(err error) string {
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Code
		}
	}
	return ErrCodeInternal
}

func HTTPStatus(err error) int {
	if status, ok := statusCodeMap[Code(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Hint returns the user facing message attached to err, or a generic message
// for unmarked errors so internal details never leak to clients.
func Hint(err error) string {
	hints := errors.GetAllHints(err)
	if len(hints) > 0 {
		return hints[0]
	}

	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Message
		}
	}
	return ErrInternal.Message
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsLocked(err error) bool {
	return errors.Is(err, ErrLocked)
}

func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotReady(err error) bool {
	return errors.Is(err, ErrNotReady)
}
