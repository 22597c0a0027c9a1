package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cleared-dev/splitbook/internal/buildinfo"
	"github.com/cleared-dev/splitbook/internal/config"
	"github.com/cleared-dev/splitbook/internal/importer"
	"github.com/cleared-dev/splitbook/internal/logging"
)

// app carries per-invocation state shared by subcommands.
type app struct {
	v        *viper.Viper
	cfgFile  string
	cfg      *config.Config
	logger   *slog.Logger
	registry *importer.Registry
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), registry: importer.DefaultRegistry()}

	rootCmd := &cobra.Command{
		Use:     "splitbook",
		Short:   "Household bank statement reconciliation",
		Long:    "splitbook merges overlapping bank statement exports, tags who paid in, categorizes spending and reports cash flow.",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./"+config.FileName+")")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("dir", "", "directory of statement CSV files")
	flags.String("mapping", "", "mapping document path")

	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("import.dir", flags.Lookup("dir"))
	_ = a.v.BindPFlag("mapping.file", flags.Lookup("mapping"))

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand(a))
	rootCmd.AddCommand(newDedupCommand(a))
	rootCmd.AddCommand(newContributorsCommand(a))
	rootCmd.AddCommand(newCategorizeCommand(a))
	rootCmd.AddCommand(newReportCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	for key, val := range config.Defaults() {
		a.v.SetDefault(key, val)
	}

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName(strings.TrimSuffix(config.FileName, filepath.Ext(config.FileName)))
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("SPLITBOOK")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := config.Default()
	if err := a.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if _, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.logger = logging.For("cli")
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "splitbook "+buildinfo.String())
			return nil
		},
	}
}
