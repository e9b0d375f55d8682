package cli

import (
	"github.com/spf13/cobra"

	"github.com/jinwoo1225/gh-triage/internal/pullrequest"
	"github.com/jinwoo1225/gh-triage/internal/ui"
	"github.com/jinwoo1225/gh-triage/internal/utils"
)

var cloneAndCheckout = utils.CloneAndCheckout

func newBrowseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse your pull requests in the terminal",
		Long: `browse lists review requests, your own pull requests, drafts and pull
requests you are involved in. Enter opens the pull request, c clones and
checks it out under BASE_DIR (default ~/workspace), r refreshes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := ui.NewListModel(pullrequest.NewFetcher(), ui.DefaultCategories)
			if err := runBrowser(m); err != nil {
				return err
			}
			entry, ok := m.Selected()
			if !ok {
				return nil
			}
			return cloneAndCheckout(cmd.Context(), entry.RepositoryNameWithOwner, entry.PrNumber, utils.GetBaseDir())
		},
	}
}
