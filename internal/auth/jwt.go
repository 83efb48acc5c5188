// Package auth provides JWT session tokens for identifying which
// provider account a browser completed an OAuth flow for. Sessions are
// a convenience on top of the per-source token store; every data call
// still authenticates against the stored provider token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/folio/internal/identifier"
)

const issuer = "folio"

// Identity is what a validated session token asserts: this browser
// completed an OAuth flow for Username at Source.
type Identity struct {
	Username string
	Source   identifier.Source
}

// TokenService signs and verifies session tokens with an HMAC secret.
// The same secret must be used for both operations.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), lifetime: 24 * time.Hour}, nil
}

// claims extends the registered set with the source the session belongs
// to. Subject carries the provider username.
type claims struct {
	Source string `json:"src"`
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given identity.
func (s *TokenService) Generate(username string, source identifier.Source) (string, error) {
	return s.GenerateWithDuration(username, source, s.lifetime)
}

// GenerateWithDuration creates a token with a custom expiry. Used in
// tests to produce already-expired tokens.
func (s *TokenService) GenerateWithDuration(username string, source identifier.Source, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Source: source.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token, returning the identity
// it asserts. Restricting the accepted algorithms to HS256 prevents
// algorithm confusion attacks.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, errors.New("auth: token expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, errors.New("auth: invalid token claims")
	}
	if c.Subject == "" || c.Source == "" {
		return Identity{}, errors.New("auth: token is missing identity claims")
	}

	return Identity{Username: c.Subject, Source: identifier.Source(c.Source)}, nil
}
