package github

import (
	"context"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/pkg/errors"
)

const (
	projectIDQuery = `query($org: String!, $number: Int!) {
  organization(login: $org) {
    projectV2(number: $number) {
      id
      title
    }
  }
}`

	addProjectItemMutation = `mutation($project: ID!, $content: ID!) {
  addProjectV2ItemById(input: {projectId: $project, contentId: $content}) {
    item {
      id
    }
  }
}`
)

type graphQLDoer interface {
	DoWithContext(ctx context.Context, query string, variables map[string]interface{}, response interface{}) error
}

// ProjectClient adds issues and pull requests to an organization Projects (v2) board.
type ProjectClient struct {
	gql graphQLDoer
}

// NewProjectClient creates a GraphQL client for github.com authenticated with token.
func NewProjectClient(token string) (*ProjectClient, error) {
	gql, err := api.NewGraphQLClient(api.ClientOptions{
		AuthToken: token,
		Host:      "github.com",
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating GraphQL client")
	}
	return &ProjectClient{gql: gql}, nil
}

// ProjectID resolves the node ID of org's project number.
func (p *ProjectClient) ProjectID(ctx context.Context, org string, number int) (string, error) {
	var resp struct {
		Organization struct {
			ProjectV2 struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			} `json:"projectV2"`
		} `json:"organization"`
	}
	vars := map[string]interface{}{"org": org, "number": number}
	if err := p.gql.DoWithContext(ctx, projectIDQuery, vars, &resp); err != nil {
		return "", errors.Wrapf(err, "resolving project %s/%d", org, number)
	}
	if resp.Organization.ProjectV2.ID == "" {
		return "", errors.Errorf("project %s/%d not found", org, number)
	}
	return resp.Organization.ProjectV2.ID, nil
}

// AddItem adds contentID to the project and returns the new item ID. An empty
// ID with a nil error means the item was already on the board.
func (p *ProjectClient) AddItem(ctx context.Context, projectID, contentID string) (string, error) {
	var resp struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"addProjectV2ItemById"`
	}
	vars := map[string]interface{}{"project": projectID, "content": contentID}
	if err := p.gql.DoWithContext(ctx, addProjectItemMutation, vars, &resp); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return "", nil
		}
		return "", errors.Wrapf(err, "adding %s to project", contentID)
	}
	return resp.AddProjectV2ItemByID.Item.ID, nil
}
