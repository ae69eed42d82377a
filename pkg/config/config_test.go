package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"relcore/pkg/logging"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 30*time.Second, cfg.Query.Timeout)
	require.Equal(t, 4, cfg.Query.Parallelism)
	require.Equal(t, FormatTable, cfg.Output.Format)
	require.Equal(t, 100, cfg.Output.MaxRows)
	require.False(t, cfg.Query.CaseInsensitiveLike)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relcore.yaml")
	content := `
log:
  level: debug
  format: json
query:
  case_insensitive_like: true
  timeout: 2s
  parallelism: 8
output:
  format: arrow
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 2*time.Second, cfg.Query.Timeout)
	require.Equal(t, 8, cfg.Query.Parallelism)
	require.True(t, cfg.Query.CaseInsensitiveLike)
	require.Equal(t, FormatArrow, cfg.Output.Format)
	require.Equal(t, 100, cfg.Output.MaxRows)

	logCfg := cfg.Logging()
	require.Equal(t, logging.LevelDebug, logCfg.Level)
	require.Equal(t, "json", logCfg.Format)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("RELCORE_QUERY_TIMEOUT", "750ms")
	t.Setenv("RELCORE_OUTPUT_MAX_ROWS", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 750*time.Millisecond, cfg.Query.Timeout)
	require.Equal(t, 5, cfg.Output.MaxRows)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("query:\n  parallelism: 0\n"), 0o600))
	_, err = Load(path)
	require.ErrorContains(t, err, "parallelism")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"warning alias", func(c *Config) { c.Log.Level = "warning" }, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"negative timeout", func(c *Config) { c.Query.Timeout = -time.Second }, true},
		{"zero parallelism", func(c *Config) { c.Query.Parallelism = 0 }, true},
		{"bad output", func(c *Config) { c.Output.Format = "csv" }, true},
		{"negative max rows", func(c *Config) { c.Output.MaxRows = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
