package github

import (
	"context"
	"fmt"

	"github.com/sakif/folio/internal/identifier"
	"github.com/sakif/folio/internal/plugin"
)

// postLabel marks which issues in the user's profile repository are posts.
const postLabel = "post"

// issuesPlugin serves the "posts" request type. Posts are open issues
// labelled "post" in the user's profile repository ({username}/{username}),
// the same repository whose README feeds the blurb plugin.
type issuesPlugin struct {
	client *client
}

func (p *issuesPlugin) Identifier() identifier.Plugin { return "issues" }

func (p *issuesPlugin) GetData(ctx context.Context, username, authToken string) (plugin.Response, error) {
	repo := fmt.Sprintf("%s/%s", username, username)

	issues, err := p.client.SearchIssues(ctx, authToken, repo, postLabel, true)
	if err != nil {
		return nil, err
	}

	posts := make(plugin.PostsResponse, 0, len(issues))
	for _, issue := range issues {
		tags := make([]string, 0, len(issue.Labels))
		for _, label := range issue.Labels {
			// The marker label is plumbing, not content.
			if label.Name == postLabel {
				continue
			}
			tags = append(tags, label.Name)
		}

		posts = append(posts, plugin.PostResponse{
			Number:       issue.Number,
			Title:        issue.Title,
			Body:         issue.Body,
			Tags:         tags,
			CreatedAt:    issue.CreatedAt,
			UpdatedAt:    issue.UpdatedAt,
			OriginalLink: issue.HTMLURL,
		})
	}

	return posts, nil
}
