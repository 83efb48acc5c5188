package github

import (
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"

	"github.com/sakif/folio/internal/auth"
	"github.com/sakif/folio/internal/identifier"
	"github.com/sakif/folio/internal/plugin"
)

// SourceID is the identifier this source registers under.
const SourceID identifier.Source = "github"

// Config carries everything the GitHub source needs. APIBase exists so
// tests can point the client at a local server.
type Config struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	APIBase      string
	UserAgent    string
	Timeout      time.Duration
}

// Source bundles the GitHub plugins behind the plugin.Source contract.
type Source struct {
	client   *client
	oauthCfg *oauth2.Config
	sessions *auth.TokenService
	logger   *slog.Logger
}

// New builds the GitHub source. sessions may be nil, in which case the
// OAuth callback skips issuing a session cookie.
func New(cfg Config, sessions *auth.TokenService, logger *slog.Logger) (*Source, error) {
	c, err := newClient(cfg.APIBase, cfg.UserAgent, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Source{
		client: c,
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"read:user", "repo"},
			Endpoint:     oauthgithub.Endpoint,
		},
		sessions: sessions,
		logger:   logger,
	}, nil
}

func (s *Source) Identifier() identifier.Source { return SourceID }

func (s *Source) Plugins() plugin.Collection {
	return plugin.Collection{
		Auth: []plugin.AuthPlugin{
			&oauthPlugin{cfg: s.oauthCfg, client: s.client, sessions: s.sessions, logger: s.logger},
		},
		User: []plugin.DataPlugin{&profilePlugin{client: s.client}},
		Projects: []plugin.DataPlugin{
			&reposPlugin{client: s.client},
			&repoTopicsPlugin{client: s.client},
		},
		Posts:    []plugin.DataPlugin{&issuesPlugin{client: s.client}},
		Blurb:    []plugin.DataPlugin{&readmePlugin{client: s.client}},
	}
}
