package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/splitbook/internal/export"
	"github.com/cleared-dev/splitbook/internal/session"
	"github.com/cleared-dev/splitbook/internal/ui"
)

func newExportCommand(a *app) *cobra.Command {
	var outPath string
	var keep bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write cleaned transactions and the mapping document to a ZIP bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.runPipeline(pipelineOptions{keepDuplicates: keep})
			if err != nil {
				return err
			}

			now := time.Now()
			if outPath == "" {
				outPath = filepath.Join("exports", "splitbook-"+now.Format("20060102-150405")+".zip")
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return fmt.Errorf("creating export dir: %w", err)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			defer f.Close()

			bundle := export.Bundle{
				Transactions: s.Transactions,
				Document:     session.MappingDocument(s, now),
				Log:          s.Log,
				Granularity:  export.Granularity(a.cfg.Export.Granularity),
				Modified:     now,
			}
			if err := export.WriteBundle(f, bundle); err != nil {
				return fmt.Errorf("writing bundle: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", outPath, err)
			}

			a.logger.Info("bundle written", "path", outPath, "transactions", len(s.Transactions))
			fmt.Fprintln(cmd.OutOrStdout(), ui.FormatSuccess(fmt.Sprintf("exported %d transactions to %s", len(s.Transactions), outPath)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "bundle path (default: exports/splitbook-<timestamp>.zip)")
	cmd.Flags().BoolVar(&keep, "keep-duplicates", false, "keep duplicate copies, flagged, instead of removing them")
	return cmd
}
