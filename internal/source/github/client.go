// Package github implements the GitHub source: a shared REST client, an
// OAuth auth plugin, and one data plugin per request type.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/folio/internal/apperror"
)

const acceptHeader = "application/vnd.github+json"

// client is a thin binding over the GitHub REST API. It is constructed
// once per source and shared read-only by every plugin, so all methods
// are safe for concurrent use.
type client struct {
	apiBase   *url.URL
	userAgent string
	http      *http.Client
}

// newClient parses the API base and configures a bounded-timeout HTTP
// client. Every outbound call is capped by the timeout; an expired
// deadline surfaces as an external error, never hangs a request.
func newClient(apiBase, userAgent string, timeout time.Duration) (*client, error) {
	base, err := url.Parse(apiBase)
	if err != nil {
		return nil, fmt.Errorf("github: parsing api base %q: %w", apiBase, err)
	}

	return &client{
		apiBase:   base,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}, nil
}

// get performs an authenticated GET against the API and decodes the JSON
// response into v. Provider failures are translated into the apperror
// taxonomy here, at the boundary, so callers never see raw HTTP errors.
func (c *client) get(ctx context.Context, token, path string, query url.Values, v any) error {
	u := c.apiBase.JoinPath(strings.Split(path, "/")...)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return apperror.Internal(fmt.Sprintf("github: building request for %s: %v", path, err))
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeouts and transport failures are upstream problems from the
		// caller's point of view.
		return apperror.External(fmt.Sprintf("github: requesting %s: %v", path, err))
	}
	defer resp.Body.Close()

	if err := statusToError(resp.StatusCode, path); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return apperror.External(fmt.Sprintf("github: decoding %s response: %v", path, err))
	}

	return nil
}

// statusToError maps a GitHub status code onto the error taxonomy.
func statusToError(status int, path string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return apperror.NotAuthorised(fmt.Sprintf("github rejected credentials for %s", path))
	case status == http.StatusNotFound:
		return apperror.NotFound("github resource", path)
	case status >= 500:
		return apperror.External(fmt.Sprintf("github returned %d for %s", status, path))
	default:
		return apperror.Internal(fmt.Sprintf("github returned unexpected %d for %s", status, path))
	}
}

// userResponse is the slice of the GitHub user object we care about.
type userResponse struct {
	Login           string `json:"login"`
	AvatarURL       string `json:"avatar_url"`
	HTMLURL         string `json:"html_url"`
	Name            string `json:"name"`
	Company         string `json:"company"`
	Blog            string `json:"blog"`
	Location        string `json:"location"`
	Email           string `json:"email"`
	Bio             string `json:"bio"`
	TwitterUsername string `json:"twitter_username"`
}

// User fetches a public profile by username.
func (c *client) User(ctx context.Context, token, username string) (*userResponse, error) {
	var u userResponse
	if err := c.get(ctx, token, "users/"+username, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// AuthenticatedUser fetches the profile of whoever the token belongs to.
// Used during OAuth completion to learn the canonical username.
func (c *client) AuthenticatedUser(ctx context.Context, token string) (*userResponse, error) {
	var u userResponse
	if err := c.get(ctx, token, "user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

type repositoryResponse struct {
	Name            string   `json:"name"`
	Private         bool     `json:"private"`
	HTMLURL         string   `json:"html_url"`
	Description     string   `json:"description"`
	ForksCount      int      `json:"forks_count"`
	StargazersCount int      `json:"stargazers_count"`
	WatchersCount   int      `json:"watchers_count"`
	OpenIssuesCount int      `json:"open_issues_count"`
	Topics          []string `json:"topics"`
	Homepage        string   `json:"homepage"`
	Language        string   `json:"language"`
}

// Repositories lists the repositories the token's owner has access to.
func (c *client) Repositories(ctx context.Context, token string) ([]repositoryResponse, error) {
	var repos []repositoryResponse
	if err := c.get(ctx, token, "user/repos", nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

type searchRepositoriesResponse struct {
	Items []repositoryResponse `json:"items"`
}

// SearchRepositories finds the token owner's repositories carrying every
// one of the given topics. "user:@me" scopes the search to the
// authenticated user, same as the repository list endpoint.
func (c *client) SearchRepositories(ctx context.Context, token string, topics []string) ([]repositoryResponse, error) {
	terms := []string{"user:@me"}
	for _, topic := range topics {
		terms = append(terms, "topic:"+topic)
	}

	query := url.Values{"q": {strings.Join(terms, " ")}}

	var result searchRepositoriesResponse
	if err := c.get(ctx, token, "search/repositories", query, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

type labelResponse struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type issueResponse struct {
	HTMLURL   string          `json:"html_url"`
	Number    int             `json:"number"`
	Title     string          `json:"title"`
	Labels    []labelResponse `json:"labels"`
	State     string          `json:"state"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
	Body      string          `json:"body"`
}

type searchIssuesResponse struct {
	Items []issueResponse `json:"items"`
}

// SearchIssues runs an issue search restricted to one repo and label.
// The query shape matches GitHub's search syntax: every term is ANDed.
func (c *client) SearchIssues(ctx context.Context, token, repo, label string, open bool) ([]issueResponse, error) {
	terms := []string{"is:issue", "repo:" + repo, "label:" + label}
	if open {
		terms = append(terms, "is:open")
	} else {
		terms = append(terms, "is:closed")
	}

	query := url.Values{"q": {strings.Join(terms, " ")}}

	var result searchIssuesResponse
	if err := c.get(ctx, token, "search/issues", query, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

type readmeResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Readme fetches and decodes a repository's README. GitHub returns the
// content base64-encoded with embedded newlines.
func (c *client) Readme(ctx context.Context, token, owner, repo string) (string, error) {
	var r readmeResponse
	if err := c.get(ctx, token, fmt.Sprintf("repos/%s/%s/readme", owner, repo), nil, &r); err != nil {
		return "", err
	}

	if r.Encoding != "base64" {
		return "", apperror.External(fmt.Sprintf("github readme has unexpected encoding %q", r.Encoding))
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(r.Content, "\n", ""))
	if err != nil {
		return "", apperror.External(fmt.Sprintf("github readme is not valid base64: %v", err))
	}

	return string(decoded), nil
}
