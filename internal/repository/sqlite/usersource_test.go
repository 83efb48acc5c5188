package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/folio/internal/apperror"
)

// newTestDB returns a DB backed by an in-memory SQLite database that is
// discarded when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndFindToken(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SaveUserSource(ctx, "github", "alice", "gho_abc123"); err != nil {
		t.Fatalf("SaveUserSource() error = %v", err)
	}

	token, err := db.FindToken(ctx, "alice", "github")
	if err != nil {
		t.Fatalf("FindToken() error = %v", err)
	}
	if token != "gho_abc123" {
		t.Errorf("FindToken() = %q, want %q", token, "gho_abc123")
	}
}

func TestFindTokenMissIsNotAuthorised(t *testing.T) {
	db := newTestDB(t)

	_, err := db.FindToken(context.Background(), "bob", "github")
	if err == nil {
		t.Fatal("FindToken() should fail for an unknown pair")
	}
	if !errors.Is(err, apperror.ErrNotAuthorised) {
		t.Errorf("FindToken() error = %v, want ErrNotAuthorised", err)
	}
}

func TestSaveUserSourceUpserts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SaveUserSource(ctx, "github", "alice", "token-one"); err != nil {
		t.Fatalf("first SaveUserSource() error = %v", err)
	}
	first, err := db.GetUserSource(ctx, "alice", "github")
	if err != nil {
		t.Fatalf("GetUserSource() error = %v", err)
	}

	// Second login replaces the token but keeps the same user row.
	if err := db.SaveUserSource(ctx, "github", "alice", "token-two"); err != nil {
		t.Fatalf("second SaveUserSource() error = %v", err)
	}
	second, err := db.GetUserSource(ctx, "alice", "github")
	if err != nil {
		t.Fatalf("GetUserSource() error = %v", err)
	}

	if second.Token != "token-two" {
		t.Errorf("Token after upsert = %q, want %q", second.Token, "token-two")
	}
	if second.UserID != first.UserID {
		t.Errorf("UserID changed across logins: %q != %q", second.UserID, first.UserID)
	}

	// Still exactly one row for the pair.
	var count int
	err = db.conn.QueryRow(
		`SELECT COUNT(*) FROM user_sources WHERE username = ? AND source = ?`,
		"alice", "github",
	).Scan(&count)
	if err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if count != 1 {
		t.Errorf("user_sources rows = %d, want 1", count)
	}
}

func TestSameUsernameOnDifferentSources(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SaveUserSource(ctx, "github", "alice", "gh-token"); err != nil {
		t.Fatalf("SaveUserSource(github) error = %v", err)
	}
	if err := db.SaveUserSource(ctx, "gitlab", "alice", "gl-token"); err != nil {
		t.Fatalf("SaveUserSource(gitlab) error = %v", err)
	}

	gh, err := db.FindToken(ctx, "alice", "github")
	if err != nil {
		t.Fatalf("FindToken(github) error = %v", err)
	}
	gl, err := db.FindToken(ctx, "alice", "gitlab")
	if err != nil {
		t.Fatalf("FindToken(gitlab) error = %v", err)
	}

	if gh != "gh-token" || gl != "gl-token" {
		t.Errorf("tokens crossed sources: github=%q gitlab=%q", gh, gl)
	}
}

func TestGetUserSourceMissIsNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserSource(context.Background(), "nobody", "github")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserSource() error = %v, want ErrNotFound", err)
	}
}
