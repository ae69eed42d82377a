package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"relcore/pkg/relation"
	"relcore/pkg/tuple"
	"relcore/pkg/ui/base"
)

// maxCellWidth bounds how much of a single value a table shows.
const maxCellWidth = 40

func cells(row *tuple.Tuple) []string {
	out := make([]string, row.NumFields())
	for i := range out {
		out[i] = base.Truncate(row.At(i).String(), maxCellWidth)
	}
	return out
}

// RenderRelation draws rel as a bordered table followed by a row count.
// At most maxRows rows are drawn; maxRows <= 0 draws all of them.
func RenderRelation(rel *relation.Relation, maxRows int) string {
	rows := rel.Tuples()
	shown := rows
	if maxRows > 0 && len(rows) > maxRows {
		shown = rows[:maxRows]
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(bgLight)).
		Headers(rel.Schema().Names()...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return header
			}
			return cell
		})
	for _, row := range shown {
		t.Row(cells(row)...)
	}

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteByte('\n')
	if len(shown) < len(rows) {
		b.WriteString(fmt.Sprintf("(showing %d of %s)", len(shown), base.Plural(len(rows), "row")))
	} else {
		b.WriteString("(" + base.Plural(len(rows), "row") + ")")
	}
	return b.String()
}
