package github

import (
	"context"

	"github.com/sakif/folio/internal/identifier"
	"github.com/sakif/folio/internal/plugin"
)

// profilePlugin serves the "user" request type from the GitHub user API.
type profilePlugin struct {
	client *client
}

func (p *profilePlugin) Identifier() identifier.Plugin { return "profile" }

func (p *profilePlugin) GetData(ctx context.Context, username, authToken string) (plugin.Response, error) {
	u, err := p.client.User(ctx, authToken, username)
	if err != nil {
		return nil, err
	}

	links := map[string]string{"github": u.HTMLURL}
	if u.TwitterUsername != "" {
		links["twitter"] = "https://twitter.com/" + u.TwitterUsername
	}

	return plugin.UserResponse{
		Name:     u.Name,
		Avatar:   u.AvatarURL,
		Bio:      u.Bio,
		Location: u.Location,
		Email:    u.Email,
		Links:    links,
		Blog:     u.Blog,
		Company:  u.Company,
	}, nil
}
