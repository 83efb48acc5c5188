package github

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"
	"golang.org/x/oauth2"

	"github.com/sakif/folio/internal/auth"
	"github.com/sakif/folio/internal/identifier"
	"github.com/sakif/folio/internal/plugin"
)

// oauthPlugin implements the GitHub Authorization Code flow:
//
//	GET /redirect: set a CSRF state cookie and send the browser to
//	                GitHub's authorization page
//	GET /oauth:    exchange the returned code for an access token,
//	                look up the canonical username, and hand the
//	                credential to the sink
//
// The code-for-token exchange happens server-to-server using the client
// secret; the access token never touches the browser.
type oauthPlugin struct {
	cfg      *oauth2.Config
	client   *client
	sessions *auth.TokenService // nil when JWT_SECRET is unset
	logger   *slog.Logger
}

func (p *oauthPlugin) Identifier() identifier.Plugin { return "oauth" }

func (p *oauthPlugin) RegisterRoutes(source identifier.Source, save plugin.SaveAuthToken) chi.Router {
	r := chi.NewRouter()
	r.Get("/redirect", p.handleRedirect)
	r.Get("/oauth", p.handleCallback(source, save))
	return r
}

// handleRedirect sends the user to GitHub's authorization page.
//
// The random state value is stored in a short-lived HttpOnly cookie and
// verified on callback, so a callback can only complete a flow this
// server started.
func (p *oauthPlugin) handleRedirect(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusTemporaryRedirect)
}

// handleCallback completes the OAuth flow. Any upstream failure surfaces
// as 500 with no retry; the user restarts the flow. On success exactly
// one AuthTokenPayload is handed to the sink.
func (p *oauthPlugin) handleCallback(source identifier.Source, save plugin.SaveAuthToken) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateCookie, err := r.Cookie("oauth_state")
		if err != nil || stateCookie.Value == "" ||
			r.URL.Query().Get("state") != stateCookie.Value {
			p.logger.Warn("oauth callback: state mismatch")
			http.Error(w, "invalid OAuth state", http.StatusBadRequest)
			return
		}

		// The state cookie is single-use.
		http.SetCookie(w, &http.Cookie{
			Name:   "oauth_state",
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})

		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing OAuth code", http.StatusBadRequest)
			return
		}

		token, err := p.cfg.Exchange(r.Context(), code)
		if err != nil {
			p.logger.Error("oauth callback: code exchange failed",
				slog.String("source", source.String()),
				slog.String("error", err.Error()),
			)
			http.Error(w, "authentication failed", http.StatusInternalServerError)
			return
		}

		// One more round trip to learn who just authenticated.
		user, err := p.client.AuthenticatedUser(r.Context(), token.AccessToken)
		if err != nil {
			p.logger.Error("oauth callback: identity fetch failed",
				slog.String("source", source.String()),
				slog.String("error", err.Error()),
			)
			http.Error(w, "authentication failed", http.StatusInternalServerError)
			return
		}

		payload := plugin.AuthTokenPayload{
			Source:   source,
			Username: user.Login,
			Token:    token.AccessToken,
		}
		if err := save(payload); err != nil {
			// At-most-once: the credential is dropped, the user logs in
			// again.
			p.logger.Error("oauth callback: saving token failed",
				slog.String("source", source.String()),
				slog.String("username", user.Login),
				slog.String("error", err.Error()),
			)
			http.Error(w, "authentication failed", http.StatusInternalServerError)
			return
		}

		p.logger.Info("oauth flow completed",
			slog.String("source", source.String()),
			slog.String("username", user.Login),
		)

		if p.sessions != nil {
			p.issueSessionCookie(w, source, user.Login)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(map[string]string{
			"source":   source.String(),
			"username": user.Login,
		}); err != nil {
			p.logger.Error("oauth callback: encoding response failed",
				slog.String("error", err.Error()))
		}
	}
}

func (p *oauthPlugin) issueSessionCookie(w http.ResponseWriter, source identifier.Source, username string) {
	session, err := p.sessions.Generate(username, source)
	if err != nil {
		// The provider token is already persisted; a failed session
		// cookie only costs the user a /me lookup.
		p.logger.Error("oauth callback: session token generation failed",
			slog.String("error", err.Error()))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    session,
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
