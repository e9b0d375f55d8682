package triage

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/jinwoo1225/gh-triage/internal/config"
	"github.com/jinwoo1225/gh-triage/internal/model"
)

// ProjectPause separates consecutive additions to stay clear of secondary rate limits.
const ProjectPause = 100 * time.Millisecond

type ProjectAdder interface {
	ProjectID(ctx context.Context, org string, number int) (string, error)
	AddItem(ctx context.Context, projectID, contentID string) (string, error)
}

type SyncResult struct {
	Added    int
	Existing int
	Failed   int
}

// SyncProject adds every pull request to the project board. A failing item is
// logged and counted; only an unresolvable project aborts the sync.
func SyncProject(ctx context.Context, p ProjectAdder, project config.Project, pulls []*model.GithubPullRequest, pause time.Duration) (SyncResult, error) {
	var res SyncResult

	logger.Info("🔄 Getting project ID...")
	projectID, err := p.ProjectID(ctx, project.Org, project.Number)
	if err != nil {
		return res, err
	}
	logger.Infof("✅ Project ID: %s", projectID)

	logger.Infof("🔄 Adding %d items to project...", len(pulls))
	for i, pr := range pulls {
		if i > 0 && pause > 0 {
			select {
			case <-ctx.Done():
				return res, errors.Wrap(ctx.Err(), "project sync cancelled")
			case <-time.After(pause):
			}
		}
		itemID, err := p.AddItem(ctx, projectID, pr.NodeID)
		switch {
		case err != nil:
			res.Failed++
			logger.WithError(err).Errorf("❌ Failed to add pr #%d", pr.PrNumber)
		case itemID == "":
			res.Existing++
			logger.Debugf("✅ Item %s already exists in project", pr.NodeID)
		default:
			res.Added++
			logger.Infof("✅ Added pr #%d: %s", pr.PrNumber, pr.Title)
		}
	}
	logger.Infof("✅ Project update complete: %d added, %d already existed", res.Added, res.Existing)
	return res, nil
}
