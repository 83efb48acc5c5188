// Package model defines the persisted data structures.
package model

import (
	"time"

	"github.com/sakif/folio/internal/identifier"
)

// User is an account on this service. Identity is delegated entirely to
// the linked sources, so the row carries no profile data of its own,
// just our internal ID (xid) and login bookkeeping.
type User struct {
	ID        string    `json:"id"        db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	LastLogin time.Time `json:"lastLogin" db:"last_login"`
}

// UserSource links a user to one external provider account and stores the
// bearer token obtained from that provider's OAuth flow.
//
// At most one row exists per (Username, Source) pair: a later login
// overwrites the earlier token rather than creating a second row, so
// token lookup during dispatch is never ambiguous.
type UserSource struct {
	Username  string            `json:"username"  db:"username"`
	Source    identifier.Source `json:"source"    db:"source"`
	Token     string            `json:"-"         db:"token"` // never serialized
	UserID    string            `json:"userId"    db:"user_id"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
}
