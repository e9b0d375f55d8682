package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jinwoo1225/gh-triage/internal/config"
	"github.com/jinwoo1225/gh-triage/internal/pending"
	"github.com/jinwoo1225/gh-triage/internal/report"
	"github.com/jinwoo1225/gh-triage/internal/tasks"
	"github.com/jinwoo1225/gh-triage/internal/team"
)

// ErrUncheckedTasks makes check-tasks exit non-zero.
var ErrUncheckedTasks = errors.New("there are unchecked tasks in the PR")

func newPRsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prs",
		Short: "Pull request dashboards and checks",
	}
	cmd.AddCommand(newPendingCommand(a), newCheckTasksCommand(a))
	return cmd
}

func newPendingCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Write the pending pull requests dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				output = a.cfg.Output.PendingReport
			}
			return runPending(cmd.Context(), a, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Dashboard file (default from config)")
	return cmd
}

func runPending(ctx context.Context, a *app, output string) error {
	if err := a.env.Require(true); err != nil {
		return err
	}
	reviewers, err := config.LoadReviewers(a.cfg.ReviewersFile)
	if err != nil {
		return err
	}
	tm := team.New(reviewers)

	sources, err := config.ResolveSources(a.cfg.PullRequestSources, a.env.Repository)
	if err != nil {
		return err
	}

	pulls, err := pending.Collect(ctx, a.client(ctx), sources, tm)
	if err != nil {
		return err
	}
	d := pending.Build(now(), pulls, tm)

	r, err := report.NewRenderer()
	if err != nil {
		return err
	}
	if err := writeFile(output, func(w io.Writer) error { return r.RenderPending(w, d) }); err != nil {
		return err
	}
	logger.Infof("✅ Pending PRs listed and HTML generated: %s", output)
	return nil
}

func newCheckTasksCommand(a *app) *cobra.Command {
	var number int
	cmd := &cobra.Command{
		Use:   "check-tasks",
		Short: "Fail when the pull request still has unchecked tasks",
		Long: `check-tasks looks for "[ ]" in the pull request description, its comments,
its review comments and the patches of its files. The pull request defaults to
the one GITHUB_REF points at (refs/pull/<n>/merge).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheckTasks(cmd.Context(), a, cmd.OutOrStdout(), number)
		},
	}
	cmd.Flags().IntVar(&number, "pr", 0, "Pull request number (default from GITHUB_REF)")
	return cmd
}

func runCheckTasks(ctx context.Context, a *app, out io.Writer, number int) error {
	if err := a.env.Require(true); err != nil {
		return err
	}
	owner, repo, err := a.currentRepository()
	if err != nil {
		return err
	}
	if number == 0 {
		if number, err = parseNumber("pull request number", config.PullRequestNumberFromRef(a.env.Ref)); err != nil {
			return errors.Wrap(err, "reading GITHUB_REF")
		}
	}

	found, err := tasks.Check(ctx, a.client(ctx), owner, repo, number)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintln(out, "No unchecked tasks found.")
		return nil
	}
	for _, f := range found {
		logger.Infof("unchecked task in %s", f)
	}
	fmt.Fprintln(out, "There are unchecked tasks in the PR.")
	return ErrUncheckedTasks
}
