package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/folio/internal/apperror"
	"github.com/sakif/folio/internal/identifier"
	"github.com/sakif/folio/internal/model"
	"github.com/sakif/folio/internal/repository"
)

// compile-time check that *DB implements repository.UserSourceRepository
var _ repository.UserSourceRepository = (*DB)(nil)

// FindToken returns the stored bearer token for (username, source).
// A miss is apperror.ErrNotAuthorised; the dispatcher maps it to 401.
func (db *DB) FindToken(ctx context.Context, username string, source identifier.Source) (string, error) {
	var token string
	err := db.conn.QueryRowContext(ctx,
		`SELECT token FROM user_sources WHERE username = ? AND source = ?`,
		username, string(source),
	).Scan(&token)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", apperror.NotAuthorised(
				fmt.Sprintf("no token for %s on %s", username, source))
		}
		return "", fmt.Errorf("sqlite: finding token for (%s, %s): %w", username, source, err)
	}

	return token, nil
}

// SaveUserSource upserts the credential for (username, source).
//
// First login creates a users row (xid ID) and inserts the link; every
// later login for the same pair keeps the existing user row, replaces the
// token, and bumps last_login. Exactly one user_sources row ever exists
// per pair.
func (db *DB) SaveUserSource(ctx context.Context, source identifier.Source, username, token string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM user_sources WHERE username = ? AND source = ?`,
		username, string(source),
	).Scan(&userID)

	switch {
	case err == sql.ErrNoRows:
		// First login from this provider account.
		now := time.Now()
		userID = xid.New().String()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, created_at, last_login) VALUES (?, ?, ?)`,
			userID, now, now,
		); err != nil {
			return fmt.Errorf("sqlite: inserting user: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_sources (username, source, token, user_id, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			username, string(source), token, userID, now,
		); err != nil {
			return fmt.Errorf("sqlite: inserting user source (%s, %s): %w", username, source, err)
		}

	case err != nil:
		return fmt.Errorf("sqlite: looking up user source (%s, %s): %w", username, source, err)

	default:
		// Repeat login: replace the token, keep the user row.
		if _, err := tx.ExecContext(ctx,
			`UPDATE user_sources SET token = ? WHERE username = ? AND source = ?`,
			token, username, string(source),
		); err != nil {
			return fmt.Errorf("sqlite: updating token for (%s, %s): %w", username, source, err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET last_login = ? WHERE id = ?`,
			time.Now(), userID,
		); err != nil {
			return fmt.Errorf("sqlite: bumping last_login for %s: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing user source (%s, %s): %w", username, source, err)
	}

	return nil
}

// GetUserSource returns the full stored record for (username, source).
// Returns apperror.ErrNotFound when absent.
func (db *DB) GetUserSource(ctx context.Context, username string, source identifier.Source) (*model.UserSource, error) {
	var us model.UserSource
	var src string

	err := db.conn.QueryRowContext(ctx,
		`SELECT username, source, token, user_id, created_at
		 FROM user_sources WHERE username = ? AND source = ?`,
		username, string(source),
	).Scan(&us.Username, &src, &us.Token, &us.UserID, &us.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user source", fmt.Sprintf("%s/%s", source, username))
		}
		return nil, fmt.Errorf("sqlite: getting user source (%s, %s): %w", username, source, err)
	}
	us.Source = identifier.Source(src)

	return &us, nil
}
