package model

import (
	"time"
)

type GithubPullRequest struct {
	PrNumber                int
	NodeID                  string
	RepositoryNameWithOwner string
	Title                   string
	Body                    string
	AuthorSlug              string
	URL                     string
	CommentsCount           int
	Draft                   bool
	Labels                  []Label
	Assignees               []string
	RequestedReviewers      []string
	CreatedAt               time.Time
	UpdatedAt               time.Time

	// Source is the tag of the configured repository the pull request came from.
	Source string
}

// RepositoryName returns the part of RepositoryNameWithOwner after the slash.
func (pr *GithubPullRequest) RepositoryName() string {
	return repositoryName(pr.RepositoryNameWithOwner)
}

func (pr *GithubPullRequest) HasLabel(name string) bool {
	return hasLabel(pr.Labels, name)
}
