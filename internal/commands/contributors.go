package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/splitbook/internal/contributors"
	"github.com/cleared-dev/splitbook/internal/mapping"
	"github.com/cleared-dev/splitbook/internal/session"
	"github.com/cleared-dev/splitbook/internal/ui"
)

func newContributorsCommand(a *app) *cobra.Command {
	var limit int
	var keep bool

	cmd := &cobra.Command{
		Use:   "contributors",
		Short: "Rank payers by total income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("limit") {
				a.cfg.Contributors.Limit = limit
			}
			s, err := a.runPipeline(pipelineOptions{until: session.Contributors, keepDuplicates: keep})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(s.Ranked) == 0 {
				fmt.Fprintln(out, ui.FormatWarning("no income transactions"))
				return nil
			}
			fmt.Fprintln(out, ui.Contributors(s.Ranked, s.Selected))
			return nil
		},
	}

	cmd.AddCommand(newContributorsSelectCommand(a))
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many contributors (0 for all)")
	cmd.Flags().BoolVar(&keep, "keep-duplicates", false, "count duplicate copies instead of removing them")
	return cmd
}

func newContributorsSelectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select <name>...",
		Short: "Save the contributors tracked individually in reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(args))
			for _, n := range args {
				norm := contributors.NormalizeName(strings.ToLower(strings.TrimSpace(n)))
				if norm != "" {
					names = append(names, norm)
				}
			}
			doc, err := a.updateDocument(func(doc *mapping.Document) {
				doc.Contributors = names
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.FormatSuccess("tracking "+strings.Join(doc.Contributors, ", ")))
			return nil
		},
	}
}
