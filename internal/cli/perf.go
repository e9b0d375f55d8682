package cli

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jinwoo1225/gh-triage/internal/perf"
	"github.com/jinwoo1225/gh-triage/internal/report"
)

func newPerfCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perf",
		Short: "Performance report tooling",
	}
	cmd.AddCommand(newPerfCombineCommand(), newPerfDashboardCommand())
	return cmd
}

func newPerfCombineCommand() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Merge per-worker CSV reports into one file per test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			written, err := perf.Combine(input, output)
			if err != nil {
				return err
			}
			logger.Infof("✅ Wrote %d combined reports to %s", len(written), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Directory holding *.gw<N>.csv and *.master.csv reports")
	cmd.Flags().StringVarP(&output, "output", "o", "perf_data", "Directory receiving <test>/<test>.csv")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newPerfDashboardCommand() *cobra.Command {
	var (
		output      string
		postProcess bool
	)
	cmd := &cobra.Command{
		Use:   "dashboard <report.csv>",
		Short: "Render the interactive dashboard for a combined report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			title := strings.TrimSuffix(filepath.Base(input), ".csv")
			if output == "" {
				output = strings.TrimSuffix(input, ".csv") + ".html"
			}

			t, err := perf.ReadTable(input)
			if err != nil {
				return err
			}
			if postProcess {
				if err := perf.PostProcessTileLoop(t); err != nil {
					return err
				}
			}
			r, err := report.NewRenderer()
			if err != nil {
				return err
			}
			d := perf.BuildDashboard(title, t)
			if err := writeFile(output, func(w io.Writer) error { return r.RenderPerf(w, d) }); err != nil {
				return err
			}
			logger.Infof("📊 Dashboard written to %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "HTML file (default next to the CSV)")
	cmd.Flags().BoolVar(&postProcess, "post-process", false, "Normalise TILE_LOOP rows to per-tile figures first")
	return cmd
}
