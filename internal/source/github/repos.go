package github

import (
	"context"

	"github.com/sakif/folio/internal/identifier"
	"github.com/sakif/folio/internal/plugin"
)

// reposPlugin serves the "projects" request type from the repository list.
type reposPlugin struct {
	client *client
}

func (p *reposPlugin) Identifier() identifier.Plugin { return "repos" }

func (p *reposPlugin) GetData(ctx context.Context, _ string, authToken string) (plugin.Response, error) {
	repos, err := p.client.Repositories(ctx, authToken)
	if err != nil {
		return nil, err
	}

	projects := make(plugin.ProjectsResponse, 0, len(repos))
	for _, repo := range repos {
		projects = append(projects, projectFromRepository(repo))
	}

	return projects, nil
}

func projectFromRepository(r repositoryResponse) plugin.ProjectResponse {
	project := plugin.ProjectResponse{
		Name:        r.Name,
		Description: r.Description,
		URL:         r.Homepage,
		Tags:        r.Topics,
	}
	if project.Tags == nil {
		project.Tags = []string{}
	}
	if r.Language != "" {
		project.Languages = []string{r.Language}
	}

	// Repository stats are only exposed for public repos.
	if !r.Private {
		project.Repo = &plugin.Repo{
			URL:      r.HTMLURL,
			Stars:    r.StargazersCount,
			Forks:    r.ForksCount,
			Watchers: r.WatchersCount,
			Issues:   r.OpenIssuesCount,
		}
	}

	return project
}
