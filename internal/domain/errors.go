package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies domain errors so transport layers can map them to
// status codes without inspecting messages.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeInvalidRange       ErrorCode = "invalid_range"
	CodePastDate           ErrorCode = "past_date"
	CodeNotFound           ErrorCode = "not_found"
	CodeRoomUnavailable    ErrorCode = "room_unavailable"
	CodeCapacityExceeded   ErrorCode = "capacity_exceeded"
	CodeForbidden          ErrorCode = "forbidden"
	CodeNotModifiable      ErrorCode = "not_modifiable"
	CodeNotCancelable      ErrorCode = "not_cancelable"
	CodeConflict           ErrorCode = "conflict"
	CodeConcurrentConflict ErrorCode = "concurrent_conflict"
	CodeInvalidState       ErrorCode = "invalid_state"
)

// Error is the common error type returned by domain and application code.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewValidationError creates an error for invalid caller input.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewInvalidRangeError signals check_out <= check_in.
func NewInvalidRangeError(message string) *Error {
	return &Error{Code: CodeInvalidRange, Message: message}
}

// NewPastDateError signals a check-in date before the current date.
func NewPastDateError(message string) *Error {
	return &Error{Code: CodePastDate, Message: message}
}

// NewNotFoundError creates an error for a missing resource.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

// NewRoomUnavailableError signals an overlap conflict with an existing booking.
func NewRoomUnavailableError(reason string) *Error {
	return &Error{Code: CodeRoomUnavailable, Message: reason}
}

// NewCapacityExceededError signals guests > room capacity.
func NewCapacityExceededError(guests, capacity int) *Error {
	return &Error{
		Code:    CodeCapacityExceeded,
		Message: fmt.Sprintf("room sleeps %d guests, %d requested", capacity, guests),
	}
}

// NewForbiddenError creates an error for an ownership or privilege failure.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NewNotModifiableError signals a booking that can no longer be modified.
func NewNotModifiableError(message string) *Error {
	return &Error{Code: CodeNotModifiable, Message: message}
}

// NewNotCancelableError signals a booking that can no longer be canceled.
func NewNotCancelableError(message string) *Error {
	return &Error{Code: CodeNotCancelable, Message: message}
}

// NewConflictError creates an error for a state conflict (e.g. duplicate key).
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewConcurrentConflictError signals a storage-layer commit race. Retryable.
func NewConcurrentConflictError(message string) *Error {
	return &Error{Code: CodeConcurrentConflict, Message: message}
}

// NewInvalidStateError signals a disallowed status transition.
func NewInvalidStateError(from, to string) *Error {
	return &Error{
		Code:    CodeInvalidState,
		Message: fmt.Sprintf("cannot transition booking from %s to %s", from, to),
	}
}

// CodeOf extracts the ErrorCode from err, or empty string for foreign errors.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// IsRetryable reports whether the caller may safely retry the operation.
func IsRetryable(err error) bool {
	return IsCode(err, CodeConcurrentConflict)
}
