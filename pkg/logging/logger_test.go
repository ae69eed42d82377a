package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level LogLevel) *bytes.Buffer {
	t.Helper()
	require.NoError(t, Close())
	var buf bytes.Buffer
	require.NoError(t, InitWriter(&buf, Config{Level: level, Format: "json"}))
	t.Cleanup(func() { _ = Close() })
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"verbose", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got)
	}
}

func TestContextLoggers(t *testing.T) {
	buf := capture(t, LevelDebug)

	WithQuery("sales_by_region").Info("query finished", "rows", 3)
	entry := lastEntry(t, buf)
	require.Equal(t, "sales_by_region", entry["query"])
	require.EqualValues(t, 3, entry["rows"])

	WithOperator("HashJoin", "01J0").Debug("build side materialized")
	entry = lastEntry(t, buf)
	require.Equal(t, "HashJoin", entry["operator"])
	require.Equal(t, "01J0", entry["node"])

	WithOperator("Filter", "").Debug("open")
	require.NotContains(t, lastEntry(t, buf), "node")

	WithError(errors.New("boom")).Error("query failed")
	entry = lastEntry(t, buf)
	require.Equal(t, "boom", entry["error"])
	require.Equal(t, "ERROR", entry["level"])
}

func TestLevelFilters(t *testing.T) {
	buf := capture(t, LevelWarn)

	GetLogger().Info("hidden")
	require.Zero(t, buf.Len())
	GetLogger().Warn("shown")
	require.Equal(t, "shown", lastEntry(t, buf)["msg"])
}

func TestInitTwice(t *testing.T) {
	capture(t, LevelInfo)
	require.Error(t, InitWriter(&bytes.Buffer{}, Config{}))
}

func TestInitFile(t *testing.T) {
	require.NoError(t, Close())
	path := filepath.Join(t.TempDir(), "logs", "relcore.log")
	require.NoError(t, Init(Config{Level: LevelInfo, OutputPath: path, Format: "text"}))

	GetLogger().Info("written to file", "k", "v")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "written to file")
	require.Contains(t, string(data), "k=v")
}

func TestGetLoggerLazyDefault(t *testing.T) {
	require.NoError(t, Close())
	require.NotNil(t, GetLogger())
	require.NoError(t, Close())
}
