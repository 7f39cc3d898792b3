package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so callers can map them to user-visible codes
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindState      ErrorKind = "state"
	ErrorKindForbidden  ErrorKind = "forbidden"
	ErrorKindConflict   ErrorKind = "conflict"
	ErrorKindNotFound   ErrorKind = "not_found"
	ErrorKindInternal   ErrorKind = "internal"
)

// Error is a classified domain error. Message is safe to show to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports bad input
func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewStateError reports an illegal transition for the current challenge state
func NewStateError(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindState, Message: fmt.Sprintf(format, args...)}
}

// NewForbiddenError reports that the caller has no authority over the transition
func NewForbiddenError(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindForbidden, Message: fmt.Sprintf(format, args...)}
}

// NewConflictError reports a clash with existing state such as insufficient funds
func NewConflictError(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindConflict, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a missing entity
func NewNotFoundError(entity string, id int64) *Error {
	return &Error{Kind: ErrorKindNotFound, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

// KindOf returns the kind of the first domain error in err's chain, or ErrorKindInternal
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ErrorKindInternal
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// IsStateError is true for illegal transitions, including those rejected for lack of authority
func IsStateError(err error) bool {
	return IsKind(err, ErrorKindState) || IsKind(err, ErrorKindForbidden)
}

// UserMessage returns the caller-safe message for err
func UserMessage(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "An unexpected error occurred. Please try again."
}
