package errors

import (
	"github.com/cockroachdb/errors"
)

// ErrorBuilder builds a marked error. Mark must be the last call in the chain.
type ErrorBuilder struct {
	err error
}

func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithMessage adds internal context that is logged but never returned to clients.
func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err = errors.WithMessage(b.err, msg)
	return b
}

// WithHint sets the message returned to clients.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

func (b *ErrorBuilder) Mark(reference error) error {
	b.err = errors.Mark(b.err, reference)
	return b.err
}

func NotFound(hint string) error {
	return NewError(hint).WithHint(hint).Mark(ErrNotFound)
}

func Forbidden(hint string) error {
	return NewError(hint).WithHint(hint).Mark(ErrForbidden)
}

func Locked(hint string) error {
	return NewError(hint).WithHint(hint).Mark(ErrLocked)
}

func InvalidState(hint string) error {
	return NewError(hint).WithHint(hint).Mark(ErrInvalidState)
}

func Validation(hint string) error {
	return NewError(hint).WithHint(hint).Mark(ErrValidation)
}

func NotReady(hint string) error {
	return NewError(hint).WithHint(hint).Mark(ErrNotReady)
}
