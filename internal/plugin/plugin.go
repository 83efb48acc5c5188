// Package plugin defines the contracts every source capability implements.
//
// A source (e.g. GitHub) exposes two kinds of plugins:
//
//   - DataPlugin: fetches one kind of data (user profile, projects, posts,
//     blurb) for a username using that user's stored provider token.
//   - AuthPlugin: mounts an OAuth flow that ultimately emits an
//     AuthTokenPayload for persistence.
//
// Plugins are constructed once at startup, hold no mutable state after
// construction, and must be safe to call from concurrent requests.
package plugin

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/folio/internal/identifier"
)

// DataPlugin fetches provider data and maps it into one of the closed set
// of Response shapes. Provider-specific errors (HTTP status codes,
// deserialization failures) must be translated into the apperror taxonomy
// before returning; callers never see raw provider errors.
type DataPlugin interface {
	// Identifier returns the plugin's stable key within its source.
	Identifier() identifier.Plugin

	// GetData performs the provider fetch. Implementations must be safe
	// for concurrent use with shared read-only state.
	GetData(ctx context.Context, username, authToken string) (Response, error)
}

// AuthTokenPayload is emitted exactly once per successful OAuth completion.
// The sink consumes and persists it; afterwards the value is discarded.
type AuthTokenPayload struct {
	Source   identifier.Source
	Username string
	Token    string
}

// SaveAuthToken hands a completed OAuth credential to the auth-token sink.
// It never blocks the caller; if the sink is unavailable the payload is
// dropped and an error returned (at-most-once persistence).
type SaveAuthToken func(AuthTokenPayload) error

// AuthPlugin mounts the two OAuth routes for its source:
//
//	GET /redirect: 302 to the provider's authorize endpoint
//	GET /oauth:    completes the flow, emits an AuthTokenPayload, 200
type AuthPlugin interface {
	// Identifier returns the plugin's stable key within its source.
	Identifier() identifier.Plugin

	// RegisterRoutes returns the mountable route set. The returned router
	// is mounted once at startup and never mutated afterwards.
	RegisterRoutes(source identifier.Source, save SaveAuthToken) chi.Router
}

// Collection groups everything a single source exposes, one slice per
// request type. The registry folds collections from all configured
// sources into its flat index.
type Collection struct {
	Auth     []AuthPlugin
	User     []DataPlugin
	Projects []DataPlugin
	Posts    []DataPlugin
	Blurb    []DataPlugin
}

// Source is a configured external provider. It owns shared resources
// (HTTP client, OAuth credentials) that its plugins borrow.
type Source interface {
	Identifier() identifier.Source
	Plugins() Collection
}
