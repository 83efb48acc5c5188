package auth

import (
	"context"
	"net/http"
)

// contextKey is unexported so only this package can read or write the
// identity stored in a request context.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth enforces a valid session on protected routes.
//
// It reads the JWT from the "session" HttpOnly cookie, validates it, and
// stores the identity in the request context. A missing or invalid token
// ends the request with 401.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := extractIdentity(r, tokens)
			if err != nil {
				http.Error(w, `{"error":"not_authorised","message":"valid session required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the session identity from the request
// context. Returns ok=false when the request carried no valid session.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.Username != ""
}

func extractIdentity(r *http.Request, tokens *TokenService) (Identity, error) {
	cookie, err := r.Cookie("session")
	if err != nil {
		return Identity{}, err
	}

	return tokens.Validate(cookie.Value)
}
