package middleware

import (
	ierr "maidhub/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	TraceID string `json:"traceId,omitempty"`
}

// WriteError renders err with its mapped status. Unmarked errors become a
// generic 500 so internal details stay in the logs.
func WriteError(c *fiber.Ctx, err error) error {
	return c.Status(ierr.HTTPStatus(err)).JSON(ErrorResponse{
		Error:   ierr.Hint(err),
		Code:    ierr.Code(err),
		TraceID: GetTraceID(c),
	})
}

// ErrorHandler is the Fiber-level fallback for errors no handler rendered:
// unknown routes, oversized bodies, failed upgrades and recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if !ierr.As(err, &fiberErr) {
		return WriteError(c, err)
	}

	code := ierr.ErrCodeValidation
	switch {
	case fiberErr.Code == fiber.StatusNotFound:
		code = ierr.ErrCodeNotFound
	case fiberErr.Code >= fiber.StatusInternalServerError:
		return WriteError(c, err)
	}

	return c.Status(fiberErr.Code).JSON(ErrorResponse{
		Error:   fiberErr.Message,
		Code:    code,
		TraceID: GetTraceID(c),
	})
}
