package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/splitbook/internal/categorize"
	"github.com/cleared-dev/splitbook/internal/contributors"
)

// FileName is the project config file created by init.
const FileName = "splitbook.yaml"

// Config represents the top-level splitbook.yaml configuration.
type Config struct {
	Import       ImportConfig       `yaml:"import"`
	Contributors ContributorsConfig `yaml:"contributors"`
	Categories   CategoriesConfig   `yaml:"categories"`
	Patterns     PatternsConfig     `yaml:"patterns"`
	Mapping      MappingConfig      `yaml:"mapping"`
	Export       ExportConfig       `yaml:"export"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// ImportConfig controls statement loading.
type ImportConfig struct {
	Format     string `yaml:"format"`
	Dir        string `yaml:"dir"`
	Concurrent int    `yaml:"concurrent"` // files parsed in parallel, <= 1 is sequential
}

// ContributorsConfig controls contributor ranking.
type ContributorsConfig struct {
	Limit int `yaml:"limit"` // 0 ranks everyone
}

// CategoriesConfig lists the categories offered before any rule exists.
type CategoriesConfig struct {
	Defaults []string `yaml:"defaults,omitempty"`
}

// PatternsConfig controls the keyword miner.
type PatternsConfig struct {
	Limit int `yaml:"limit"`
}

// MappingConfig locates the mapping document carried between sessions.
type MappingConfig struct {
	File string `yaml:"file"`
}

// ExportConfig controls the export bundle.
type ExportConfig struct {
	Granularity string `yaml:"granularity"` // "month" or "all"
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a splitbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	if c.Contributors.Limit < 0 {
		return fmt.Errorf("contributors.limit must not be negative, got %d", c.Contributors.Limit)
	}
	if c.Patterns.Limit < 0 {
		return fmt.Errorf("patterns.limit must not be negative, got %d", c.Patterns.Limit)
	}
	switch c.Export.Granularity {
	case "month", "all":
	default:
		return fmt.Errorf("export.granularity must be month or all, got %q", c.Export.Granularity)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			Format:     "statement",
			Dir:        "statements",
			Concurrent: 4,
		},
		Contributors: ContributorsConfig{
			Limit: contributors.Unlimited,
		},
		Categories: CategoriesConfig{
			Defaults: []string{"Groceries", "Rent", "Utilities", "Transport", "Eating out"},
		},
		Patterns: PatternsConfig{
			Limit: categorize.DefaultPatternLimit,
		},
		Mapping: MappingConfig{
			File: "mapping.json",
		},
		Export: ExportConfig{
			Granularity: "month",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Defaults flattens Default into dotted keys, for seeding viper.
func Defaults() map[string]any {
	d := Default()
	return map[string]any{
		"import.format":       d.Import.Format,
		"import.dir":          d.Import.Dir,
		"import.concurrent":   d.Import.Concurrent,
		"contributors.limit":  d.Contributors.Limit,
		"categories.defaults": d.Categories.Defaults,
		"patterns.limit":      d.Patterns.Limit,
		"mapping.file":        d.Mapping.File,
		"export.granularity":  d.Export.Granularity,
		"logging.level":       d.Logging.Level,
		"logging.format":      d.Logging.Format,
	}
}
