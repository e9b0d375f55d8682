// Package pullrequest searches pull requests through the gh CLI for the
// interactive browser.
package pullrequest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/cli/go-gh/v2"
	"github.com/pkg/errors"

	"github.com/jinwoo1225/gh-triage/internal/model"
)

type FetchOption string

const (
	StateOpen         FetchOption = "--state=open"
	AuthorMe          FetchOption = "--author=@me"
	ReviewRequestedMe FetchOption = "--review-requested=@me"
	DraftFalse        FetchOption = "--draft=false"
	DraftTrue         FetchOption = "--draft=true"
	ArchivedFalse     FetchOption = "--archived=false"
	SortCreated       FetchOption = "--sort=created"
	InvolvesMe        FetchOption = "--involves=@me"
)

const (
	outputJSONFormat = "--json=author,title,url,repository,createdAt,updatedAt,commentsCount,number,isDraft,labels,assignees"
)

// Execer runs a gh command and returns its stdout and stderr.
type Execer func(ctx context.Context, args ...string) (bytes.Buffer, bytes.Buffer, error)

// Fetcher runs `gh search prs`.
type Fetcher struct {
	exec Execer
}

func NewFetcher() *Fetcher {
	return &Fetcher{exec: gh.ExecContext}
}

func NewFetcherWith(exec Execer) *Fetcher {
	return &Fetcher{exec: exec}
}

type rawGithubPullRequestIssueResponse struct {
	Author struct {
		Slug string `json:"login"`
	} `json:"author"`
	Assignees []struct {
		Login string `json:"login"`
	} `json:"assignees"`
	CommentsCount int       `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	IsDraft       bool      `json:"isDraft"`
	Labels        []struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	} `json:"labels"`
	Number     int `json:"number"`
	Repository struct {
		NameWithOwner string `json:"nameWithOwner"`
	} `json:"repository"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
	Url       string    `json:"url"`
}

func (f *Fetcher) Fetch(ctx context.Context, options ...FetchOption) ([]*model.GithubPullRequest, error) {
	optionsStr := make([]string, 0, len(options)+3)
	optionsStr = append(optionsStr, "search", "prs", outputJSONFormat)

	for _, option := range options {
		optionsStr = append(optionsStr, string(option))
	}

	stdout, stderr, err := f.exec(ctx, optionsStr...)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching pull requests: %s", stderr.String())
	}
	return parse(&stdout)
}

func parse(r io.Reader) ([]*model.GithubPullRequest, error) {
	var rawGithubPullRequestIssueResponses []*rawGithubPullRequestIssueResponse
	if err := json.NewDecoder(r).Decode(&rawGithubPullRequestIssueResponses); err != nil {
		return nil, errors.Wrap(err, "parsing pull requests")
	}

	pullRequests := make([]*model.GithubPullRequest, 0, len(rawGithubPullRequestIssueResponses))
	for _, raw := range rawGithubPullRequestIssueResponses {
		pr := &model.GithubPullRequest{
			PrNumber:                raw.Number,
			RepositoryNameWithOwner: raw.Repository.NameWithOwner,
			Title:                   raw.Title,
			AuthorSlug:              raw.Author.Slug,
			URL:                     raw.Url,
			CommentsCount:           raw.CommentsCount,
			Draft:                   raw.IsDraft,
			CreatedAt:               raw.CreatedAt,
			UpdatedAt:               raw.UpdatedAt,
		}
		for _, l := range raw.Labels {
			pr.Labels = append(pr.Labels, model.Label{Name: l.Name, Color: l.Color})
		}
		for _, a := range raw.Assignees {
			pr.Assignees = append(pr.Assignees, a.Login)
		}
		pullRequests = append(pullRequests, pr)
	}

	return pullRequests, nil
}
