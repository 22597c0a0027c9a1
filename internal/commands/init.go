package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/splitbook/internal/config"
	"github.com/cleared-dev/splitbook/internal/ui"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new splitbook project",
		Args:  cobra.MaximumNArgs(1),
		// Skip the root config loading; there is nothing to load yet.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			kept, err := runInit(absDir, force)
			if err != nil {
				return err
			}
			if kept {
				fmt.Fprintln(cmd.OutOrStdout(), ui.FormatNote("kept settings from existing "+config.FileName))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized splitbook project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

// runInit lays out a project in dir. With force, an existing config that
// still loads keeps its settings; one that does not is replaced by defaults.
func runInit(dir string, force bool) (bool, error) {
	cfg := config.Default()
	kept := false

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		if !force {
			return false, fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
		}
		if existing, err := config.Load(cfgPath); err == nil {
			cfg, kept = existing, true
		}
	}

	for _, d := range []string{cfg.Import.Dir, "exports"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return false, fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return false, fmt.Errorf("writing config: %w", err)
	}

	gitignore := "exports/\n" + cfg.Import.Dir + "/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return false, fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, cfg.Import.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return false, fmt.Errorf("writing .gitkeep: %w", err)
	}
	return kept, nil
}
