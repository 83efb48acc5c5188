package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("plugin", "github/profile"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotAuthorised wraps ErrNotAuthorised",
			err:       NotAuthorised("no token for alice on github"),
			target:    ErrNotAuthorised,
			wantMatch: true,
		},
		{
			name:      "External wraps ErrExternal",
			err:       External("provider returned 503"),
			target:    ErrExternal,
			wantMatch: true,
		},
		{
			name:      "Internal wraps ErrInternal",
			err:       Internal("malformed callback url"),
			target:    ErrInternal,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrNotAuthorised",
			err:       NotFound("plugin", "github/profile"),
			target:    ErrNotAuthorised,
			wantMatch: false,
		},
		{
			name:      "External does NOT match ErrInternal",
			err:       External("provider returned 502"),
			target:    ErrInternal,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

// Wrapping with %w must preserve the sentinel so handlers can still
// classify errors that crossed several layers.
func TestErrorsIsThroughWrapping(t *testing.T) {
	inner := NotAuthorised("no token")
	wrapped := fmt.Errorf("dispatching request: %w", inner)

	if !errors.Is(wrapped, ErrNotAuthorised) {
		t.Error("wrapped error lost its ErrNotAuthorised classification")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As failed to extract *AppError from wrapped error")
	}
	if appErr.Message != "no token" {
		t.Errorf("Message = %q, want %q", appErr.Message, "no token")
	}
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("plugin", "github/unknown")
	want := "plugin not found: github/unknown"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
