package github

import (
	"context"

	"github.com/google/go-github/v66/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/jinwoo1225/gh-triage/internal/model"
)

var logger = log.WithField("package", "github")

const perPage = 100

// Client handles GitHub REST interactions using go-github.
type Client struct {
	client *github.Client
}

// NewClient creates a REST client authenticated with token.
func NewClient(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{client: github.NewClient(oauth2.NewClient(ctx, ts))}
}

// NewClientWith wraps an already configured go-github client, e.g. one pointed at a test server.
func NewClientWith(client *github.Client) *Client {
	return &Client{client: client}
}

// ListIssues returns every issue of owner/repo in state ("open", "closed", "all").
// Pull requests, which the issues endpoint also returns, are dropped.
func (c *Client) ListIssues(ctx context.Context, owner, repo, state string) ([]*model.GithubIssue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	nameWithOwner := owner + "/" + repo

	var issues []*model.GithubIssue
	for {
		page, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s issues of %s", state, nameWithOwner)
		}
		for _, is := range page {
			if is.IsPullRequest() {
				continue
			}
			issues = append(issues, issueFromAPI(nameWithOwner, is))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	logger.WithField("repo", nameWithOwner).WithField("state", state).Debugf("fetched %d issues", len(issues))
	return issues, nil
}

// ListPullRequests returns every pull request of owner/repo in state.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo, state string) ([]*model.GithubPullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	nameWithOwner := owner + "/" + repo

	var pulls []*model.GithubPullRequest
	for {
		page, resp, err := c.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s pull requests of %s", state, nameWithOwner)
		}
		for _, pr := range page {
			pulls = append(pulls, pullRequestFromAPI(nameWithOwner, pr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	logger.WithField("repo", nameWithOwner).WithField("state", state).Debugf("fetched %d pull requests", len(pulls))
	return pulls, nil
}

// ListRequestedReviewers returns the logins of users whose review is still pending.
func (c *Client) ListRequestedReviewers(ctx context.Context, owner, repo string, number int) ([]string, error) {
	reviewers, _, err := c.client.PullRequests.ListReviewers(ctx, owner, repo, number, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "listing requested reviewers of #%d", number)
	}
	return logins(reviewers.Users), nil
}

// ListReviewAuthors returns the logins of users who submitted a review, in review order.
func (c *Client) ListReviewAuthors(ctx context.Context, owner, repo string, number int) ([]string, error) {
	opts := &github.ListOptions{PerPage: perPage}
	var authors []string
	for {
		reviews, resp, err := c.client.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "listing reviews of #%d", number)
		}
		for _, r := range reviews {
			authors = append(authors, r.GetUser().GetLogin())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return authors, nil
}

// GetIssue retrieves a single issue.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*model.GithubIssue, error) {
	is, _, err := c.client.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, errors.Wrapf(err, "getting issue #%d", number)
	}
	return issueFromAPI(owner+"/"+repo, is), nil
}

// CreateComment posts body as a new comment on an issue or pull request.
func (c *Client) CreateComment(ctx context.Context, owner, repo string, number int, body string) (*model.Comment, error) {
	created, _, err := c.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "commenting on #%d", number)
	}
	return &model.Comment{
		ID:     created.GetID(),
		Author: created.GetUser().GetLogin(),
		Body:   created.GetBody(),
	}, nil
}

// GetPullRequest retrieves a single pull request.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*model.GithubPullRequest, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, errors.Wrapf(err, "getting pull request #%d", number)
	}
	return pullRequestFromAPI(owner+"/"+repo, pr), nil
}

// ListIssueComments returns the conversation comments of an issue or pull request.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*model.Comment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	var comments []*model.Comment
	for {
		page, resp, err := c.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "listing comments of #%d", number)
		}
		for _, cm := range page {
			comments = append(comments, &model.Comment{
				ID:     cm.GetID(),
				Author: cm.GetUser().GetLogin(),
				Body:   cm.GetBody(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return comments, nil
}

// ListReviewComments returns the inline review comments of a pull request.
func (c *Client) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]*model.Comment, error) {
	opts := &github.PullRequestListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	var comments []*model.Comment
	for {
		page, resp, err := c.client.PullRequests.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "listing review comments of #%d", number)
		}
		for _, cm := range page {
			comments = append(comments, &model.Comment{
				ID:     cm.GetID(),
				Author: cm.GetUser().GetLogin(),
				Body:   cm.GetBody(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return comments, nil
}

// ListFiles returns the changed files of a pull request with their patches.
func (c *Client) ListFiles(ctx context.Context, owner, repo string, number int) ([]*model.FilePatch, error) {
	opts := &github.ListOptions{PerPage: perPage}
	var files []*model.FilePatch
	for {
		page, resp, err := c.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "listing files of #%d", number)
		}
		for _, f := range page {
			files = append(files, &model.FilePatch{Filename: f.GetFilename(), Patch: f.GetPatch()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return files, nil
}

func issueFromAPI(nameWithOwner string, is *github.Issue) *model.GithubIssue {
	return &model.GithubIssue{
		Number:                  is.GetNumber(),
		NodeID:                  is.GetNodeID(),
		RepositoryNameWithOwner: nameWithOwner,
		Title:                   is.GetTitle(),
		Body:                    is.GetBody(),
		AuthorSlug:              is.GetUser().GetLogin(),
		URL:                     is.GetHTMLURL(),
		Labels:                  labels(is.Labels),
		Assignees:               logins(is.Assignees),
		CreatedAt:               is.GetCreatedAt().Time,
		ClosedAt:                is.GetClosedAt().Time,
	}
}

func pullRequestFromAPI(nameWithOwner string, pr *github.PullRequest) *model.GithubPullRequest {
	return &model.GithubPullRequest{
		PrNumber:                pr.GetNumber(),
		NodeID:                  pr.GetNodeID(),
		RepositoryNameWithOwner: nameWithOwner,
		Title:                   pr.GetTitle(),
		Body:                    pr.GetBody(),
		AuthorSlug:              pr.GetUser().GetLogin(),
		URL:                     pr.GetHTMLURL(),
		CommentsCount:           pr.GetComments(),
		Draft:                   pr.GetDraft(),
		Labels:                  labels(pr.Labels),
		Assignees:               logins(pr.Assignees),
		RequestedReviewers:      logins(pr.RequestedReviewers),
		CreatedAt:               pr.GetCreatedAt().Time,
		UpdatedAt:               pr.GetUpdatedAt().Time,
	}
}

func labels(in []*github.Label) []model.Label {
	out := make([]model.Label, 0, len(in))
	for _, l := range in {
		out = append(out, model.Label{Name: l.GetName(), Color: l.GetColor()})
	}
	return out
}

func logins(users []*github.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.GetLogin())
	}
	return out
}
