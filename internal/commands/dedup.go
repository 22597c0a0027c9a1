package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/splitbook/internal/dedup"
	"github.com/cleared-dev/splitbook/internal/session"
	"github.com/cleared-dev/splitbook/internal/ui"
)

func newDedupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dedup",
		Short: "List transactions that appear in more than one statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.runPipeline(pipelineOptions{until: session.Dedup})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Duplicates(s.Groups))
			if len(s.Groups) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintf(out, "%d groups, %d redundant copies; reports keep the first copy of each\n",
					len(s.Groups), dedup.Count(s.Groups))
			}
			return nil
		},
	}
}
