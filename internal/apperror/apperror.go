package apperror

import (
	"errors"
	"fmt"
)

// The error taxonomy is a closed set. Every provider-specific failure is
// translated into one of these four sentinels at the plugin boundary, so
// the dispatcher never sees a raw provider error type.
var (
	ErrNotFound      = errors.New("not found")
	ErrNotAuthorised = errors.New("not authorised")
	ErrExternal      = errors.New("external provider failure")
	ErrInternal      = errors.New("internal error")
)

type AppError struct {
	Err     error  // sentinel classifying the error
	Message string // Human-readable error message
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NotAuthorised indicates there is no valid credential for the request.
// HTTP handlers map this to 401 Unauthorized.
func NotAuthorised(message string) *AppError {
	return &AppError{
		Err:     ErrNotAuthorised,
		Message: message,
	}
}

// External indicates the upstream provider failed (5xx, timeout, or a
// malformed response). Nothing in this codebase retries automatically;
// callers may retry at their discretion.
func External(message string) *AppError {
	return &AppError{
		Err:     ErrExternal,
		Message: message,
	}
}

// Internal indicates a configuration or programming defect on our side.
func Internal(message string) *AppError {
	return &AppError{
		Err:     ErrInternal,
		Message: message,
	}
}
