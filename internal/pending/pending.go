// Package pending builds the pending pull request dashboard: team filtering,
// facets for the client-side filters and the top-5 charts.
package pending

import (
	"context"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jinwoo1225/gh-triage/internal/config"
	"github.com/jinwoo1225/gh-triage/internal/model"
	"github.com/jinwoo1225/gh-triage/internal/team"
	"github.com/jinwoo1225/gh-triage/internal/utils"
)

var logger = log.WithField("package", "pending")

// TopN is the number of bars per chart.
const TopN = 5

type PullRequestLister interface {
	ListPullRequests(ctx context.Context, owner, repo, state string) ([]*model.GithubPullRequest, error)
}

// NameCount is one bar of a chart. It is serialised into the page as JSON.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Reviewer struct {
	Login string
	Team  bool
}

type Row struct {
	Repo      string
	Number    int
	Title     string
	URL       string
	Author    string
	Draft     bool
	Assignees []string
	Reviewers []Reviewer
	CreatedAt time.Time
	DaysOpen  int
	Labels    []model.Label
}

type Dashboard struct {
	GeneratedAt   time.Time
	Rows          []Row
	Repos         []string
	Labels        []string
	TeamReviewers []string
	Authors       []string
	Assignees     []string
	AuthorStats   []NameCount
	ReviewerStats []NameCount
	AssigneeStats []NameCount
}

// Collect lists open pull requests of every source. For sources with
// FilterReviewers only PRs with a team member among the requested reviewers stay.
func Collect(ctx context.Context, c PullRequestLister, sources []config.Repository, tm *team.Team) ([]*model.GithubPullRequest, error) {
	var all []*model.GithubPullRequest
	for _, src := range sources {
		pulls, err := c.ListPullRequests(ctx, src.Owner, src.Name, "open")
		if err != nil {
			return nil, err
		}
		kept := 0
		for _, pr := range pulls {
			if src.FilterReviewers && !tm.AnyOf(pr.RequestedReviewers) {
				continue
			}
			if src.FilterLabel != "" && !pr.HasLabel(src.FilterLabel) {
				continue
			}
			pr.Source = src.Tag
			all = append(all, pr)
			kept++
		}
		logger.WithField("repo", src.FullName()).Infof("✅ %d of %d open PRs pending", kept, len(pulls))
	}
	return all, nil
}

// Build turns pull requests into dashboard rows, oldest first, plus facets and chart data.
func Build(now time.Time, pulls []*model.GithubPullRequest, tm *team.Team) *Dashboard {
	rows := make([]Row, 0, len(pulls))
	for _, pr := range pulls {
		reviewers := make([]Reviewer, 0, len(pr.RequestedReviewers))
		for _, r := range pr.RequestedReviewers {
			reviewers = append(reviewers, Reviewer{Login: r, Team: tm.Has(r)})
		}
		rows = append(rows, Row{
			Repo:      pr.RepositoryName(),
			Number:    pr.PrNumber,
			Title:     pr.Title,
			URL:       pr.URL,
			Author:    pr.AuthorSlug,
			Draft:     pr.Draft,
			Assignees: pr.Assignees,
			Reviewers: reviewers,
			CreatedAt: pr.CreatedAt,
			DaysOpen:  utils.DaysBetween(pr.CreatedAt, now),
			Labels:    pr.Labels,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].DaysOpen > rows[j].DaysOpen })

	var (
		repos, labels, reviewers, authors, assignees []string
		authorCounts, reviewerCounts, assigneeCounts counter
	)
	for _, pr := range pulls {
		repos = append(repos, pr.RepositoryName())
		authors = append(authors, pr.AuthorSlug)
		authorCounts.add(pr.AuthorSlug)
		for _, l := range pr.Labels {
			labels = append(labels, l.Name)
		}
		for _, r := range pr.RequestedReviewers {
			if tm.Has(r) {
				reviewers = append(reviewers, r)
				reviewerCounts.add(r)
			}
		}
		for _, a := range pr.Assignees {
			assignees = append(assignees, a)
			assigneeCounts.add(a)
		}
	}

	return &Dashboard{
		GeneratedAt:   now,
		Rows:          rows,
		Repos:         uniqueSorted(repos),
		Labels:        uniqueSorted(labels),
		TeamReviewers: uniqueSorted(reviewers),
		Authors:       uniqueSorted(authors),
		Assignees:     uniqueSorted(assignees),
		AuthorStats:   authorCounts.top(TopN),
		ReviewerStats: reviewerCounts.top(TopN),
		AssigneeStats: assigneeCounts.top(TopN),
	}
}

// counter counts names and remembers the order they were first seen in.
type counter struct {
	order  []string
	counts map[string]int
}

func (c *counter) add(name string) {
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

// top returns at most n entries by descending count; ties keep first-seen order.
func (c *counter) top(n int) []NameCount {
	out := make([]NameCount, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, NameCount{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
