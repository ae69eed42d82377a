// Package config loads relcore settings from defaults, an optional config
// file and RELCORE_ environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"relcore/pkg/logging"
)

// Config holds all configuration for relcore.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Query  QueryConfig  `mapstructure:"query"`
	Output OutputConfig `mapstructure:"output"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// QueryConfig holds per-query execution settings.
type QueryConfig struct {
	// CaseInsensitiveLike makes LIKE behave as ILIKE.
	CaseInsensitiveLike bool          `mapstructure:"case_insensitive_like"`
	Timeout             time.Duration `mapstructure:"timeout"`
	// Parallelism bounds how many workbook queries run at once.
	Parallelism int `mapstructure:"parallelism"`
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	MaxRows int    `mapstructure:"max_rows"`
}

// Output formats.
const (
	FormatTable = "table"
	FormatArrow = "arrow"
)

func defaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Query: QueryConfig{
			Timeout:     30 * time.Second,
			Parallelism: 4,
		},
		Output: OutputConfig{
			Format:  FormatTable,
			MaxRows: 100,
		},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// Load reads configuration from configPath, or from relcore.yaml in the
// working directory or $HOME/.relcore when configPath is empty, then applies
// RELCORE_ environment overrides (RELCORE_QUERY_TIMEOUT=5s).
func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.output", cfg.Log.Output)
	v.SetDefault("query.case_insensitive_like", cfg.Query.CaseInsensitiveLike)
	v.SetDefault("query.timeout", cfg.Query.Timeout)
	v.SetDefault("query.parallelism", cfg.Query.Parallelism)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.max_rows", cfg.Output.MaxRows)

	v.SetEnvPrefix("RELCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("relcore")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.relcore")

		// No config file is fine; defaults and environment still apply.
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that configuration values are sensible.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q (must be text or json)", c.Log.Format)
	}

	if c.Query.Timeout < 0 {
		return fmt.Errorf("query.timeout cannot be negative")
	}
	if c.Query.Parallelism < 1 {
		return fmt.Errorf("query.parallelism must be at least 1, got %d", c.Query.Parallelism)
	}

	switch c.Output.Format {
	case FormatTable, FormatArrow:
	default:
		return fmt.Errorf("invalid output.format %q (must be %s or %s)", c.Output.Format, FormatTable, FormatArrow)
	}
	if c.Output.MaxRows < 0 {
		return fmt.Errorf("output.max_rows cannot be negative")
	}
	return nil
}

// Logging converts the log section into a logger configuration.
func (c *Config) Logging() logging.Config {
	level, _ := logging.ParseLevel(c.Log.Level)
	return logging.Config{
		Level:      level,
		OutputPath: c.Log.Output,
		Format:     strings.ToLower(c.Log.Format),
	}
}
