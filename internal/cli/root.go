// Package cli wires the gh-triage subcommands.
package cli

import (
	"context"
	"io"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jinwoo1225/gh-triage/internal/config"
	"github.com/jinwoo1225/gh-triage/internal/consultant"
	"github.com/jinwoo1225/gh-triage/internal/github"
	"github.com/jinwoo1225/gh-triage/internal/tasks"
	"github.com/jinwoo1225/gh-triage/internal/triage"
	"github.com/jinwoo1225/gh-triage/internal/ui"
)

var logger = log.WithField("package", "cli")

type gitHubClient interface {
	triage.IssueLister
	triage.PullRequestLister
	tasks.PullRequestReader
	consultant.IssueGetter
	consultant.Commenter
}

// Constructors are variables so tests can swap in fakes.
var (
	newGitHubClient = func(ctx context.Context, token string) gitHubClient {
		return github.NewClient(ctx, token)
	}
	newProjectClient = func(token string) (triage.ProjectAdder, error) {
		p, err := github.NewProjectClient(token)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	newChatClient = func(cfg consultant.ChatConfig) consultant.ChatClient {
		return consultant.NewChatClient(cfg)
	}
	runBrowser = func(m *ui.ListModel) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return errors.Wrap(err, "running browser")
	}
	now          = time.Now
	projectPause = triage.ProjectPause
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	getenv     func(string) string
	configPath string
	verbose    bool

	cfg *config.Config
	env config.Env
}

func (a *app) client(ctx context.Context) gitHubClient {
	return newGitHubClient(ctx, a.env.Token)
}

// currentRepository returns owner and name of GITHUB_REPOSITORY.
func (a *app) currentRepository() (string, string, error) {
	return config.SplitRepository(a.env.Repository)
}

// NewRootCommand builds the command tree. getenv is the environment every
// subcommand reads; nil means os.Getenv.
func NewRootCommand(version string, getenv func(string) string) *cobra.Command {
	if getenv == nil {
		getenv = os.Getenv
	}
	a := &app{getenv: getenv}

	root := &cobra.Command{
		Use:   "gh-triage",
		Short: "Issue and pull request triage for the LLK team",
		Long: `gh-triage builds the team's issue and pull request dashboards, checks pull
requests for unchecked tasks, drives the AI issue consultant workflow and
combines performance reports. Every subcommand runs once and exits.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.verbose {
				log.SetLevel(log.DebugLevel)
			}
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.env = config.LoadEnv(a.getenv)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the YAML config (default "+config.DefaultPath+" when present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newIssuesCommand(a),
		newPRsCommand(a),
		newConsultCommand(a),
		newPerfCommand(a),
		newBrowseCommand(a),
	)
	return root
}

func writeFile(path string, render func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

func parseNumber(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, errors.Errorf("invalid %s %q", name, value)
	}
	return n, nil
}
