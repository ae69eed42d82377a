package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"West", 10, "West"},
		{"West", 4, "West"},
		{"Northwest", 6, "North…"},
		{"Northwest", 1, "…"},
		{"Northwest", 0, ""},
		{"héllo wörld", 6, "héllo…"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Truncate(tt.in, tt.width), "%q/%d", tt.in, tt.width)
	}
}

func TestColumnWidth(t *testing.T) {
	require.Equal(t, 10, ColumnWidth("id", []string{"1", "2"}, 10, 30))
	require.Equal(t, 14, ColumnWidth("region", []string{"Northwest", "North East 1"}, 4, 30))
	require.Equal(t, 8, ColumnWidth("region", []string{"a very long value indeed"}, 4, 8))
}

func TestPlural(t *testing.T) {
	require.Equal(t, "1 row", Plural(1, "row"))
	require.Equal(t, "0 rows", Plural(0, "row"))
	require.Equal(t, "2 relations", Plural(2, "relation"))
}
