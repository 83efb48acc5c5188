package github

import (
	"context"

	"github.com/sakif/folio/internal/identifier"
	"github.com/sakif/folio/internal/plugin"
)

// readmePlugin serves the "blurb" request type: the README of the user's
// profile repository, decoded to plain text.
type readmePlugin struct {
	client *client
}

func (p *readmePlugin) Identifier() identifier.Plugin { return "readme" }

func (p *readmePlugin) GetData(ctx context.Context, username, authToken string) (plugin.Response, error) {
	blurb, err := p.client.Readme(ctx, authToken, username, username)
	if err != nil {
		return nil, err
	}

	return plugin.BlurbResponse{Blurb: blurb}, nil
}
