package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/splitbook/internal/ui"
)

func newReportCommand(a *app) *cobra.Command {
	var keep bool
	var selectNames []string
	var weekly bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show cash flow, contributions and spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := pipelineOptions{keepDuplicates: keep}
			if len(selectNames) > 0 {
				opts.contributors = selectNames
			}
			s, err := a.runPipeline(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.FormatTitle("Report for "+strings.Join(s.Files, ", ")))
			fmt.Fprintln(out, ui.Report(s.Report))
			if weekly {
				fmt.Fprintln(out)
				fmt.Fprintln(out, ui.FormatTitle("Weekly cash flow"))
				fmt.Fprintln(out, ui.CashFlow(s.Report.WeeklyCashFlow))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keep, "keep-duplicates", false, "keep duplicate copies instead of removing them")
	cmd.Flags().StringSliceVar(&selectNames, "select", nil, "contributors to track (default: mapping document, then top two)")
	cmd.Flags().BoolVar(&weekly, "weekly", false, "include the weekly cash flow")
	return cmd
}
