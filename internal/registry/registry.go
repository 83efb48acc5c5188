// Package registry builds the immutable plugin index the dispatcher
// resolves requests against.
//
// Construction is two-phase: New folds over every configured source and
// inserts its plugins into flat maps, then the registry is frozen: it is
// never mutated after New returns. That build-then-freeze discipline is
// what lets arbitrarily many request handlers read it concurrently
// without locks.
package registry

import (
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/folio/internal/identifier"
	"github.com/sakif/folio/internal/plugin"
)

// DataKey is the composite key for data plugins. A plugin belongs to
// exactly one (request type, source, plugin) triple.
type DataKey struct {
	Type   identifier.RequestType
	Source identifier.Source
	Plugin identifier.Plugin
}

func (k DataKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Type, k.Source, k.Plugin)
}

// AuthKey is the composite key for auth plugins.
type AuthKey struct {
	Source identifier.Source
	Plugin identifier.Plugin
}

func (k AuthKey) String() string {
	return fmt.Sprintf("%s/%s", k.Source, k.Plugin)
}

// Registry is the startup-built index mapping composite identifiers to
// plugins. Read-only after construction; safe for concurrent use.
type Registry struct {
	data map[DataKey]plugin.DataPlugin
	auth map[AuthKey]plugin.AuthPlugin
}

// New registers every plugin exposed by the given sources, in
// configuration order.
//
// A duplicate composite key is a programming error in the source
// configuration: silently overwriting would make one provider's data
// invisible, so construction fails instead.
func New(sources ...plugin.Source) (*Registry, error) {
	r := &Registry{
		data: make(map[DataKey]plugin.DataPlugin),
		auth: make(map[AuthKey]plugin.AuthPlugin),
	}

	for _, src := range sources {
		id := src.Identifier()
		if id == "" {
			return nil, fmt.Errorf("registry: source with empty identifier")
		}

		plugins := src.Plugins()

		for _, p := range plugins.Auth {
			key := AuthKey{Source: id, Plugin: p.Identifier()}
			if _, exists := r.auth[key]; exists {
				return nil, fmt.Errorf("registry: duplicate auth plugin %s", key)
			}
			r.auth[key] = p
		}

		for requestType, group := range map[identifier.RequestType][]plugin.DataPlugin{
			identifier.User:     plugins.User,
			identifier.Projects: plugins.Projects,
			identifier.Posts:    plugins.Posts,
			identifier.Blurb:    plugins.Blurb,
		} {
			for _, p := range group {
				key := DataKey{Type: requestType, Source: id, Plugin: p.Identifier()}
				if _, exists := r.data[key]; exists {
					return nil, fmt.Errorf("registry: duplicate data plugin %s", key)
				}
				r.data[key] = p
			}
		}
	}

	return r, nil
}

// Lookup resolves a data plugin by its composite key. Absence is not an
// error; the dispatcher maps a miss to 404.
func (r *Registry) Lookup(t identifier.RequestType, s identifier.Source, p identifier.Plugin) (plugin.DataPlugin, bool) {
	dp, ok := r.data[DataKey{Type: t, Source: s, Plugin: p}]
	return dp, ok
}

// LookupAuth resolves an auth plugin by its composite key.
func (r *Registry) LookupAuth(s identifier.Source, p identifier.Plugin) (plugin.AuthPlugin, bool) {
	ap, ok := r.auth[AuthKey{Source: s, Plugin: p}]
	return ap, ok
}

// Len reports how many data plugins are registered.
func (r *Registry) Len() int {
	return len(r.data)
}

// AuthRoutes mounts every registered auth plugin's route set under
// /{source}/{plugin}/. Called once at startup; the returned router is
// immutable thereafter.
func (r *Registry) AuthRoutes(save plugin.SaveAuthToken) chi.Router {
	router := chi.NewRouter()
	for key, p := range r.auth {
		router.Mount(
			fmt.Sprintf("/%s/%s", key.Source, key.Plugin),
			p.RegisterRoutes(key.Source, save),
		)
	}
	return router
}
