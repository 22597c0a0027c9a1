package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/splitbook/internal/export"
	"github.com/cleared-dev/splitbook/internal/mapping"
	"github.com/cleared-dev/splitbook/internal/session"
	"github.com/cleared-dev/splitbook/internal/ui"
)

func newImportCommand(a *app) *cobra.Command {
	var (
		quiet  bool
		bundle string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Parse every statement in the import directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if bundle != "" {
				return a.restoreBundle(cmd.OutOrStdout(), bundle)
			}
			opts := pipelineOptions{until: session.Dedup}
			if !quiet {
				opts.progress = cmd.ErrOrStderr()
			}
			s, err := a.runPipeline(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			counts := make(map[string]int)
			for _, t := range s.Ingested {
				counts[t.Source]++
			}
			rows := make([][]string, 0, len(s.Files))
			for _, f := range s.Files {
				rows = append(rows, []string{f, fmt.Sprint(counts[f])})
			}
			fmt.Fprintln(out, ui.Table([]string{"File", "Transactions"}, rows, 1))
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.FormatSuccess(fmt.Sprintf("%d transactions from %d files", len(s.Ingested), len(s.Files))))
			if len(s.Groups) > 0 {
				fmt.Fprintln(out, ui.FormatWarning(fmt.Sprintf("%d duplicate groups across files, run 'splitbook dedup' to review", len(s.Groups))))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
	cmd.Flags().StringVar(&bundle, "bundle", "", "restore the mapping document from an exported bundle")
	return cmd
}

// restoreBundle checks every transaction file in an exported bundle and
// writes its mapping document to the configured mapping file.
func (a *app) restoreBundle(out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening bundle: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat bundle: %w", err)
	}

	c, err := export.ReadBundle(f, info.Size())
	if err != nil {
		return err
	}
	if !c.HasDoc {
		return fmt.Errorf("%s has no valid %s", path, export.MappingFile)
	}

	names := make([]string, 0, len(c.Files))
	for name := range c.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	total := 0
	for _, name := range names {
		txns, err := export.ReadTransactions(c.Files[name], filepath.Base(name))
		if err != nil {
			return fmt.Errorf("bundle member %s: %w", name, err)
		}
		total += len(txns)
		rows = append(rows, []string{name, fmt.Sprint(len(txns))})
	}

	data, err := mapping.Marshal(c.Document)
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.cfg.Mapping.File, data, 0o644); err != nil {
		return fmt.Errorf("writing mapping document: %w", err)
	}
	a.logger.Info("mapping document restored", "bundle", path, "path", a.cfg.Mapping.File,
		"contributors", len(c.Document.Contributors), "rules", len(c.Document.Categories))

	if len(rows) > 0 {
		fmt.Fprintln(out, ui.Table([]string{"File", "Transactions"}, rows, 1))
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, ui.FormatSuccess(fmt.Sprintf("restored %d contributors and %d rules from %s (%d transactions in %d files)",
		len(c.Document.Contributors), len(c.Document.Categories), filepath.Base(path), total, len(names))))
	return nil
}
