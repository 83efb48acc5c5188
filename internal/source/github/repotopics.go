package github

import (
	"context"

	"github.com/sakif/folio/internal/identifier"
	"github.com/sakif/folio/internal/plugin"
)

// portfolioTopic marks which repositories the user wants surfaced as
// curated projects.
const portfolioTopic = "portfolio"

// repoTopicsPlugin is the second "projects" plugin: instead of the full
// repository list it returns only repositories tagged with the portfolio
// topic, so a user can curate what shows up. Registered alongside
// reposPlugin under the same request type; the composite key keeps the
// two addressable separately.
type repoTopicsPlugin struct {
	client *client
}

func (p *repoTopicsPlugin) Identifier() identifier.Plugin { return "repo_topics" }

func (p *repoTopicsPlugin) GetData(ctx context.Context, _ string, authToken string) (plugin.Response, error) {
	repos, err := p.client.SearchRepositories(ctx, authToken, []string{portfolioTopic})
	if err != nil {
		return nil, err
	}

	projects := make(plugin.ProjectsResponse, 0, len(repos))
	for _, repo := range repos {
		projects = append(projects, projectFromRepository(repo))
	}

	return projects, nil
}
