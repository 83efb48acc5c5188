package handler

import (
	"net/http"

	"github.com/sakif/folio/internal/auth"
)

// MeResponse reports which provider account the session belongs to.
type MeResponse struct {
	Username string `json:"username"`
	Source   string `json:"source"`
}

// Me returns the identity asserted by the session cookie. The route is
// wrapped in auth.RequireAuth, so a request reaching the handler always
// carries a validated identity.
func Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "not_authorised",
			Message: "valid session required",
		})
		return
	}

	writeJSON(w, http.StatusOK, MeResponse{
		Username: id.Username,
		Source:   id.Source.String(),
	})
}
