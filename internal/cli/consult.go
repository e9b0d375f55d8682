package cli

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/jinwoo1225/gh-triage/internal/actions"
	"github.com/jinwoo1225/gh-triage/internal/consultant"
)

func newConsultCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consult",
		Short: "Steps of the AI issue consultant workflow",
	}
	cmd.AddCommand(
		newConsultDetailsCommand(a),
		newConsultPromptCommand(a),
		newConsultPostCommand(a),
	)
	return cmd
}

// failed reports err as a workflow error annotation and returns it.
func failed(action *githubactions.Action, err error) error {
	if err != nil {
		action.Errorf("%s", err)
	}
	return err
}

func newConsultDetailsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "details",
		Short: "Resolve the consulted issue and set its details as step outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			action := actions.New(a.getenv, cmd.OutOrStdout())
			return failed(action, runConsultDetails(cmd.Context(), a, action))
		},
	}
}

func runConsultDetails(ctx context.Context, a *app, action *githubactions.Action) error {
	if err := a.env.Require(true); err != nil {
		return err
	}
	owner, repo, err := a.currentRepository()
	if err != nil {
		return err
	}
	ev, err := actions.CurrentEvent(action)
	if err != nil {
		return err
	}
	input := a.getenv("GITHUB_EVENT_INPUTS_ISSUE_NUMBER")
	if input == "" {
		input = ev.Input("issue_number")
	}
	number, err := consultant.ResolveIssueNumber(ev, input, a.cfg.Consultant.DefaultIssue)
	if err != nil {
		return err
	}
	logger.Infof("Processing issue #%d", number)

	d, err := consultant.FetchDetails(ctx, a.client(ctx), owner, repo, number, a.cfg.Consultant.Label)
	if err != nil {
		return err
	}
	d.Emit(action)
	return nil
}

func newConsultPromptCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Generate the analysis prompt, falling back to the default prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			action := actions.New(a.getenv, cmd.OutOrStdout())
			chatCfg := consultant.LoadChatConfig(a.getenv)
			var client consultant.ChatClient
			if chatCfg.Complete() {
				client = newChatClient(chatCfg)
			}
			logger.Info("🎯 Generating intelligent prompt for LLK analysis...")
			p := consultant.GeneratePrompt(cmd.Context(), client, chatCfg, consultant.LoadIssueInput(a.getenv))
			return failed(action, p.Emit(action, a.cfg.Output.GeneratedPrompt))
		},
	}
}

func newConsultPostCommand(a *app) *cobra.Command {
	var (
		file   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post the AI response as a comment on the issue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				file = a.cfg.Output.AIResponse
			}
			action := actions.New(a.getenv, cmd.OutOrStdout())
			return failed(action, runConsultPost(cmd.Context(), a, cmd.OutOrStdout(), file, dryRun))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "AI response markdown (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render the response in the terminal instead of posting it")
	return cmd
}

func runConsultPost(ctx context.Context, a *app, out io.Writer, file string, dryRun bool) error {
	raw := strings.TrimSpace(a.getenv("ISSUE_NUMBER"))
	if raw == "" {
		return consultant.ErrMissingIssueNumber
	}
	number, err := parseNumber("ISSUE_NUMBER", raw)
	if err != nil {
		return err
	}
	response, err := consultant.ReadResponse(file)
	if err != nil {
		return err
	}
	if dryRun {
		return consultant.Preview(out, response)
	}

	if err := a.env.Require(true); err != nil {
		return err
	}
	owner, repo, err := a.currentRepository()
	if err != nil {
		return err
	}
	_, err = consultant.Post(ctx, a.client(ctx), owner, repo, number, response)
	return errors.Wrapf(err, "issue #%d", number)
}
