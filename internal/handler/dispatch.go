package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/folio/internal/apperror"
	"github.com/sakif/folio/internal/identifier"
	"github.com/sakif/folio/internal/registry"
	"github.com/sakif/folio/internal/repository"
)

// DataHandler resolves /{requestType}/{source}/{plugin}/{username}
// requests: look the plugin up in the registry, load the caller's stored
// provider token, and invoke the plugin.
type DataHandler struct {
	registry *registry.Registry
	tokens   repository.UserSourceRepository
	logger   *slog.Logger
}

func NewDataHandler(reg *registry.Registry, tokens repository.UserSourceRepository, logger *slog.Logger) *DataHandler {
	return &DataHandler{registry: reg, tokens: tokens, logger: logger}
}

// Handle serves one data request.
//
// Resolution order matters: a route that names no registered plugin is
// 404 regardless of credentials, so the registry lookup runs before the
// token lookup. A username with no stored token for the source is 401.
func (h *DataHandler) Handle(w http.ResponseWriter, r *http.Request) {
	rawType := chi.URLParam(r, "requestType")
	source := identifier.Source(chi.URLParam(r, "source"))
	pluginID := identifier.Plugin(chi.URLParam(r, "plugin"))
	username := chi.URLParam(r, "username")

	requestType, ok := identifier.ParseRequestType(rawType)
	if !ok {
		writeError(w, apperror.NotFound("request type", rawType))
		return
	}

	p, ok := h.registry.Lookup(requestType, source, pluginID)
	if !ok {
		writeError(w, apperror.NotFound("plugin",
			registry.DataKey{Type: requestType, Source: source, Plugin: pluginID}.String()))
		return
	}

	token, err := h.tokens.FindToken(r.Context(), username, source)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotAuthorised) {
			h.logger.Error("token lookup failed",
				slog.String("username", username),
				slog.String("source", source.String()),
				slog.String("error", err.Error()),
			)
		}
		writeError(w, err)
		return
	}

	data, err := p.GetData(r.Context(), username, token)
	if err != nil {
		h.logger.Warn("plugin call failed",
			slog.String("type", requestType.String()),
			slog.String("source", source.String()),
			slog.String("plugin", pluginID.String()),
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	// Provider data moves slowly; let clients and proxies keep it a day.
	w.Header().Set("Cache-Control", "public, max-age=86400")
	writeJSON(w, http.StatusOK, data)
}
