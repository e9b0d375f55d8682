package cli

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jinwoo1225/gh-triage/internal/config"
	"github.com/jinwoo1225/gh-triage/internal/model"
	"github.com/jinwoo1225/gh-triage/internal/report"
	"github.com/jinwoo1225/gh-triage/internal/team"
	"github.com/jinwoo1225/gh-triage/internal/triage"
)

func newIssuesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "Issue reports",
	}
	cmd.AddCommand(newIssuesReportCommand(a))
	return cmd
}

func newIssuesReportCommand(a *app) *cobra.Command {
	var (
		output      string
		skipProject bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the open issues report and sync team pull requests to the project board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				output = a.cfg.Output.IssuesReport
			}
			return runIssuesReport(cmd.Context(), a, output, skipProject)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Report file (default from config)")
	cmd.Flags().BoolVar(&skipProject, "skip-project", false, "Do not add pull requests to the project board")
	return cmd
}

func runIssuesReport(ctx context.Context, a *app, output string, skipProject bool) error {
	if err := a.env.Require(true); err != nil {
		return err
	}
	sources, err := config.ResolveSources(a.cfg.IssueSources, a.env.Repository)
	if err != nil {
		return err
	}
	client := a.client(ctx)

	if !skipProject {
		syncProject(ctx, a, client)
	}

	logger.Info("🔄 Fetching issues...")
	var open, closed []*model.GithubIssue
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		open, err = triage.CollectIssues(gctx, client, sources, "open")
		return err
	})
	g.Go(func() (err error) {
		closed, err = triage.CollectIssues(gctx, client, sources, "closed")
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Infof("✅ %d open and %d closed issues", len(open), len(closed))

	rep := triage.BuildReport(now(), open, closed, triage.DueDays(a.cfg.PriorityDueDays), a.cfg.BountyLabel)
	rep.ProjectOrg, rep.ProjectNumber = a.cfg.Project.Org, a.cfg.Project.Number

	r, err := report.NewRenderer()
	if err != nil {
		return err
	}
	if err := writeFile(output, func(w io.Writer) error { return r.RenderIssues(w, rep) }); err != nil {
		return err
	}
	logger.Infof("✅ Issues sorted and HTML generated: %s", output)
	return nil
}

// syncProject adds the team's pull requests to the project board. Failures
// are logged and never fail the report.
func syncProject(ctx context.Context, a *app, client gitHubClient) {
	sources, err := config.ResolveSources(a.cfg.PullRequestSources, a.env.Repository)
	if err != nil {
		logger.WithError(err).Error("❌ Error syncing project")
		return
	}
	tm := team.New(loadTeamOrEmpty(a.cfg.ReviewersFile))

	logger.Info("🔄 Fetching pull requests...")
	pulls, err := triage.CollectPullRequests(ctx, client, sources, tm)
	if err != nil {
		logger.WithError(err).Error("❌ Error syncing project")
		return
	}

	adder, err := newProjectClient(a.env.Token)
	if err != nil {
		logger.WithError(err).Error("❌ Error syncing project")
		return
	}
	if _, err := triage.SyncProject(ctx, adder, a.cfg.Project, pulls, projectPause); err != nil {
		logger.WithError(err).Error("❌ Error syncing project")
	}
}

// loadTeamOrEmpty reads the reviewers file. Without it reviewer filtering is skipped.
func loadTeamOrEmpty(path string) []string {
	reviewers, err := config.LoadReviewers(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warnf("⚠️  %s not found, not filtering pull requests by reviewer", path)
		} else {
			logger.WithError(err).Warn("⚠️  could not read reviewers, not filtering pull requests by reviewer")
		}
		return nil
	}
	return reviewers
}
