package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"

	"github.com/jinwoo1225/gh-triage/internal/model"
	"github.com/jinwoo1225/gh-triage/internal/utils"
)

type Entry struct {
	RepositoryNameWithOwner string
	Title                   string
	URL                     string
	AgeStr                  string
	LastUpdatedSinceStr     string
	Author                  string
	PrNumber                int
	CommentsCount           int
	Draft                   bool
	Labels                  []string
}

// itemEntry wraps an Entry for the PR List.
type itemEntry struct{ entry Entry }

func (i itemEntry) Title() string {
	title := fmt.Sprintf("%s — %s - %d", i.entry.RepositoryNameWithOwner, i.entry.Title, i.entry.PrNumber)
	if i.entry.Draft {
		title = "[draft] " + title
	}
	return title
}

func (i itemEntry) Description() string {
	desc := fmt.Sprintf("Age: %s, LastUpdatedSince: %s, Author: %s, CommentCount: %d", i.entry.AgeStr, i.entry.LastUpdatedSinceStr, i.entry.Author, i.entry.CommentsCount)
	if len(i.entry.Labels) > 0 {
		desc += ", Labels: " + strings.Join(i.entry.Labels, ", ")
	}
	return desc
}

func (i itemEntry) FilterValue() string {
	return i.entry.RepositoryNameWithOwner + " " + i.entry.Title + " " + strings.Join(i.entry.Labels, " ")
}

// ItemsFromEntries converts []Entry to []list.Item.
func ItemsFromEntries(entries []Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = itemEntry{entry: e}
	}
	return items
}

func BuildEntries(pullRequests []*model.GithubPullRequest, now time.Time) []Entry {
	entries := make([]Entry, 0, len(pullRequests))
	for _, pullRequest := range pullRequests {
		age := now.Sub(pullRequest.CreatedAt)
		lastUpdatedSince := now.Sub(pullRequest.UpdatedAt)
		labels := make([]string, 0, len(pullRequest.Labels))
		for _, l := range pullRequest.Labels {
			labels = append(labels, l.Name)
		}
		entries = append(entries, Entry{
			RepositoryNameWithOwner: pullRequest.RepositoryNameWithOwner,
			Title:                   pullRequest.Title,
			URL:                     pullRequest.URL,
			AgeStr:                  utils.HumanizeDuration(int(age.Seconds())),
			LastUpdatedSinceStr:     utils.HumanizeDuration(int(lastUpdatedSince.Seconds())),
			Author:                  pullRequest.AuthorSlug,
			PrNumber:                pullRequest.PrNumber,
			CommentsCount:           pullRequest.CommentsCount,
			Draft:                   pullRequest.Draft,
			Labels:                  labels,
		})
	}
	return entries
}
