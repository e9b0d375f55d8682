package model

import (
	"strings"
	"time"
)

// Label is a GitHub label; Color is a hex string without the leading '#'.
type Label struct {
	Name  string
	Color string
}

type GithubIssue struct {
	Number                  int
	NodeID                  string
	RepositoryNameWithOwner string
	Title                   string
	Body                    string
	AuthorSlug              string
	URL                     string
	Labels                  []Label
	Assignees               []string
	CreatedAt               time.Time
	ClosedAt                time.Time

	// Source is the tag of the configured repository the issue came from.
	Source string
}

func (i *GithubIssue) HasLabel(name string) bool {
	return hasLabel(i.Labels, name)
}

// IsClosed reports whether the issue carries a closing timestamp.
func (i *GithubIssue) IsClosed() bool {
	return !i.ClosedAt.IsZero()
}

// LabelNames returns the label names in API order.
func (i *GithubIssue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

func hasLabel(labels []Label, name string) bool {
	for _, l := range labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

func repositoryName(nameWithOwner string) string {
	if i := strings.LastIndex(nameWithOwner, "/"); i >= 0 {
		return nameWithOwner[i+1:]
	}
	return nameWithOwner
}
