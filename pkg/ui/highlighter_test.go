package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitPlanLine(t *testing.T) {
	tests := []struct {
		line string
		want planLine
	}{
		{
			line: "Limit 2 #01J0 -> (id INT NOT NULL)",
			want: planLine{operator: "Limit 2", id: "#01J0", schema: "(id INT NOT NULL)"},
		},
		{
			line: "├── Filter ((meta ->> 'channel') = 'web') #01J1 -> (id INT NOT NULL)",
			want: planLine{tree: "├── ", operator: "Filter ((meta ->> 'channel') = 'web')", id: "#01J1", schema: "(id INT NOT NULL)"},
		},
		{
			line: "│   └── HashJoin LEFT #01J2 -> (o.id INT NOT NULL) [HashJoin keys=1 right=0]",
			want: planLine{tree: "│   └── ", operator: "HashJoin LEFT", id: "#01J2", schema: "(o.id INT NOT NULL)", stats: "[HashJoin keys=1 right=0]"},
		},
		{
			line: "Scan orders -> (id INT NOT NULL)",
			want: planLine{operator: "Scan orders", schema: "(id INT NOT NULL)"},
		},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, splitPlanLine(tt.line), tt.line)
	}
}

func TestPlanHighlighter_PreservesText(t *testing.T) {
	plan := "Sort total DESC #A -> (region TEXT, total INT)\n" +
		"└── Aggregate [region] #B -> (region TEXT, total INT)\n" +
		"    └── Scan orders #C -> (region TEXT, total INT)\n"

	out := NewPlanHighlighter().Highlight(plan)
	// no color profile under test, so styles render as plain text
	require.Equal(t, strings.TrimRight(plan, "\n"), out)
}
