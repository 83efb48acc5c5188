package repository

import (
	"context"

	"github.com/sakif/folio/internal/identifier"
	"github.com/sakif/folio/internal/model"
)

// UserSourceRepository is the durable store for provider credentials.
//
// FindToken returns apperror.ErrNotAuthorised (wrapped) when no token is
// stored for the pair, so the dispatcher can map the miss to 401 with a
// plain errors.Is check.
type UserSourceRepository interface {
	// FindToken returns the bearer token stored for (username, source).
	FindToken(ctx context.Context, username string, source identifier.Source) (string, error)

	// SaveUserSource upserts the (username, source) row with a fresh
	// token, creating the owning user row on first login and bumping
	// last_login on every subsequent one.
	SaveUserSource(ctx context.Context, source identifier.Source, username, token string) error

	// GetUserSource returns the full stored record, mainly for tests and
	// admin introspection.
	GetUserSource(ctx context.Context, username string, source identifier.Source) (*model.UserSource, error)
}
