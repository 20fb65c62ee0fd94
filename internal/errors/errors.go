package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Seed error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"  // 400
	ErrUnknownActivity ErrorCode = "UNKNOWN_ACTIVITY" // 404
	ErrUnknownElement  ErrorCode = "UNKNOWN_ELEMENT"  // 404
	ErrNotFound        ErrorCode = "NOT_FOUND"        // 404
	ErrDayResolution   ErrorCode = "DAY_RESOLUTION"   // 500
	ErrPersistence     ErrorCode = "PERSISTENCE"      // 500
	ErrInternal        ErrorCode = "INTERNAL"         // 500
)

// SeedError represents a structured error with code, status, and details.
type SeedError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	// Cause is the underlying error, if any. It is never rendered to clients.
	Cause error
}

// Error implements the error interface.
func (e *SeedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *SeedError) Unwrap() error {
	return e.Cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SeedError {
	return &SeedError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnknownActivity creates a 404 error for an activity name with no record.
func NewUnknownActivity(name string) *SeedError {
	return &SeedError{
		Code:    ErrUnknownActivity,
		Status:  404,
		Message: fmt.Sprintf("unknown activity: %q", name),
		Details: map[string]any{"activity": name},
	}
}

// NewUnknownElement creates a 404 error for a garden element missing from an activity's catalog.
func NewUnknownElement(activity, element string) *SeedError {
	return &SeedError{
		Code:    ErrUnknownElement,
		Status:  404,
		Message: fmt.Sprintf("unknown garden element %q for activity %q", element, activity),
		Details: map[string]any{"activity": activity, "element": element},
	}
}

// NewNotFound creates a 404 error for a lookup miss.
func NewNotFound(identifier string) *SeedError {
	return &SeedError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewDayResolution creates a 500 error when the current weekday cannot be mapped to a flag.
func NewDayResolution(weekday int) *SeedError {
	return &SeedError{
		Code:    ErrDayResolution,
		Status:  500,
		Message: fmt.Sprintf("cannot resolve weekday %d", weekday),
		Details: map[string]any{"weekday": weekday},
	}
}

// NewPersistence creates a 500 error for a failed store write.
func NewPersistence(op string, cause error) *SeedError {
	msg := op + " failed"
	if cause != nil {
		msg = fmt.Sprintf("%s failed: %v", op, cause)
	}
	return &SeedError{
		Code:    ErrPersistence,
		Status:  500,
		Message: msg,
		Details: map[string]any{"op": op},
		Cause:   cause,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SeedError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &SeedError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Cause:   err,
	}
}

// Is checks if an error is (or wraps) a SeedError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *SeedError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}
