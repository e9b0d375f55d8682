package triage

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jinwoo1225/gh-triage/internal/config"
	"github.com/jinwoo1225/gh-triage/internal/model"
	"github.com/jinwoo1225/gh-triage/internal/team"
)

var logger = log.WithField("package", "triage")

type IssueLister interface {
	ListIssues(ctx context.Context, owner, repo, state string) ([]*model.GithubIssue, error)
}

type PullRequestLister interface {
	ListPullRequests(ctx context.Context, owner, repo, state string) ([]*model.GithubPullRequest, error)
	ListRequestedReviewers(ctx context.Context, owner, repo string, number int) ([]string, error)
	ListReviewAuthors(ctx context.Context, owner, repo string, number int) ([]string, error)
}

// CollectIssues fetches issues in state from every source concurrently and returns
// them in source order, filtered by each source's label and tagged with its Tag.
func CollectIssues(ctx context.Context, c IssueLister, sources []config.Repository, state string) ([]*model.GithubIssue, error) {
	perSource := make([][]*model.GithubIssue, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src // per-iteration copies (go.mod targets go 1.21)
		g.Go(func() error {
			issues, err := c.ListIssues(ctx, src.Owner, src.Name, state)
			if err != nil {
				return err
			}
			kept := issues[:0]
			for _, is := range issues {
				if src.FilterLabel != "" && !is.HasLabel(src.FilterLabel) {
					continue
				}
				is.Source = src.Tag
				kept = append(kept, is)
			}
			perSource[i] = kept
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*model.GithubIssue
	for _, issues := range perSource {
		all = append(all, issues...)
	}
	return all, nil
}

// CollectPullRequests fetches open pull requests of every source. Sources with
// FilterLabel keep labelled PRs only; sources with FilterReviewers keep PRs
// that a team member was asked to review or has reviewed.
func CollectPullRequests(ctx context.Context, c PullRequestLister, sources []config.Repository, tm *team.Team) ([]*model.GithubPullRequest, error) {
	var all []*model.GithubPullRequest
	for _, src := range sources {
		pulls, err := c.ListPullRequests(ctx, src.Owner, src.Name, "open")
		if err != nil {
			return nil, err
		}
		if src.FilterLabel != "" {
			kept := pulls[:0]
			for _, pr := range pulls {
				if pr.HasLabel(src.FilterLabel) {
					kept = append(kept, pr)
				}
			}
			pulls = kept
		}
		if src.FilterReviewers && tm.Len() > 0 {
			pulls = filterByReviewers(ctx, c, src, pulls, tm)
		}
		for _, pr := range pulls {
			pr.Source = src.Tag
		}
		all = append(all, pulls...)
	}
	return all, nil
}

func filterByReviewers(ctx context.Context, c PullRequestLister, src config.Repository, pulls []*model.GithubPullRequest, tm *team.Team) []*model.GithubPullRequest {
	entry := logger.WithField("repo", src.FullName())
	entry.Infof("🔍 Filtering %d PRs by reviewers", len(pulls))

	var kept []*model.GithubPullRequest
	for _, pr := range pulls {
		ok, err := reviewedByTeam(ctx, c, src, pr.PrNumber, tm)
		if err != nil {
			// keep PRs whose reviewers cannot be checked
			entry.WithError(err).Warnf("⚠️ Could not fetch reviewers for PR #%d", pr.PrNumber)
			kept = append(kept, pr)
			continue
		}
		if ok {
			kept = append(kept, pr)
		}
	}
	entry.Infof("✅ Found %d PRs with our reviewers", len(kept))
	return kept
}

func reviewedByTeam(ctx context.Context, c PullRequestLister, src config.Repository, number int, tm *team.Team) (bool, error) {
	requested, err := c.ListRequestedReviewers(ctx, src.Owner, src.Name, number)
	if err != nil {
		return false, err
	}
	reviewed, err := c.ListReviewAuthors(ctx, src.Owner, src.Name, number)
	if err != nil {
		return false, err
	}
	return tm.AnyOf(requested) || tm.AnyOf(reviewed), nil
}
