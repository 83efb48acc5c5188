package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/folio/internal/apperror"
)

func newTestClient(t *testing.T, handler http.Handler) *client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := newClient(srv.URL, "folio-test", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestClient_User(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, acceptHeader, r.Header.Get("Accept"))
		assert.Equal(t, "folio-test", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"login":"octocat","name":"The Octocat","html_url":"https://github.com/octocat","twitter_username":"octo"}`))
	}))

	u, err := c.User(context.Background(), "tok-123", "octocat")
	require.NoError(t, err)
	assert.Equal(t, "octocat", u.Login)
	assert.Equal(t, "The Octocat", u.Name)
	assert.Equal(t, "https://github.com/octocat", u.HTMLURL)
	assert.Equal(t, "octo", u.TwitterUsername)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, apperror.ErrNotAuthorised},
		{"forbidden", http.StatusForbidden, apperror.ErrNotAuthorised},
		{"not found", http.StatusNotFound, apperror.ErrNotFound},
		{"bad gateway", http.StatusBadGateway, apperror.ErrExternal},
		{"service unavailable", http.StatusServiceUnavailable, apperror.ErrExternal},
		{"teapot", http.StatusTeapot, apperror.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := c.User(context.Background(), "tok", "octocat")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connections now refused

	c, err := newClient(srv.URL, "folio-test", time.Second)
	require.NoError(t, err)

	_, err = c.User(context.Background(), "tok", "octocat")
	assert.ErrorIs(t, err, apperror.ErrExternal)
}

func TestClient_SearchIssues(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/issues", r.URL.Path)
		assert.Equal(t, "is:issue repo:alice/alice label:post is:open", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"number":7,"title":"First post","state":"open","labels":[{"name":"post"},{"name":"go"}]}]}`))
	}))

	issues, err := c.SearchIssues(context.Background(), "tok", "alice/alice", "post", true)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 7, issues[0].Number)
	assert.Equal(t, "First post", issues[0].Title)
	require.Len(t, issues[0].Labels, 2)
}

func TestClient_Readme(t *testing.T) {
	// GitHub wraps base64 content with embedded newlines.
	content := base64.StdEncoding.EncodeToString([]byte("# Hello\n\nThis is my blurb."))
	wrapped := content[:10] + "\n" + content[10:]

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/alice/alice/readme", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		body, err := json.Marshal(readmeResponse{Content: wrapped, Encoding: "base64"})
		require.NoError(t, err)
		w.Write(body)
	}))

	blurb, err := c.Readme(context.Background(), "tok", "alice", "alice")
	require.NoError(t, err)
	assert.Equal(t, "# Hello\n\nThis is my blurb.", blurb)
}

func TestClient_ReadmeUnexpectedEncoding(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":"hello","encoding":"utf-8"}`))
	}))

	_, err := c.Readme(context.Background(), "tok", "alice", "alice")
	assert.ErrorIs(t, err, apperror.ErrExternal)
}

func TestClient_MalformedJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not json`))
	}))

	_, err := c.User(context.Background(), "tok", "octocat")
	assert.ErrorIs(t, err, apperror.ErrExternal)
}
