package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PlanHighlighter colors the lines of an explain tree: tree connectors,
// the operator description, its node id, the output schema and join
// statistics each get their own style.
type PlanHighlighter struct {
	treeStyle     lipgloss.Style
	operatorStyle lipgloss.Style
	idStyle       lipgloss.Style
	schemaStyle   lipgloss.Style
	statsStyle    lipgloss.Style
}

func NewPlanHighlighter() *PlanHighlighter {
	return &PlanHighlighter{
		treeStyle: lipgloss.NewStyle().
			Foreground(bgLight),
		operatorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF79C6")).
			Bold(true),
		idStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4")).
			Italic(true),
		schemaStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BE9FD")),
		statsStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C")),
	}
}

// planLine is one explain line split into its parts. Missing parts are
// empty.
type planLine struct {
	tree, operator, id, schema, stats string
}

func splitPlanLine(line string) planLine {
	var pl planLine

	rest := strings.TrimLeft(line, "│├└─ ")
	pl.tree = line[:len(line)-len(rest)]

	if strings.HasSuffix(rest, "]") {
		if i := strings.LastIndex(rest, " ["); i >= 0 {
			pl.stats = rest[i+1:]
			rest = rest[:i]
		}
	}
	if i := strings.LastIndex(rest, " -> "); i >= 0 {
		pl.schema = rest[i+4:]
		rest = rest[:i]
	}
	if i := strings.LastIndex(rest, " #"); i >= 0 && !strings.ContainsAny(rest[i+2:], " ()") {
		pl.id = rest[i+1:]
		rest = rest[:i]
	}
	pl.operator = rest
	return pl
}

// Highlight renders every line of an explain tree.
func (h *PlanHighlighter) Highlight(plan string) string {
	lines := strings.Split(strings.TrimRight(plan, "\n"), "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		pl := splitPlanLine(line)

		var b strings.Builder
		b.WriteString(h.treeStyle.Render(pl.tree))
		b.WriteString(h.operatorStyle.Render(pl.operator))
		if pl.id != "" {
			b.WriteString(" " + h.idStyle.Render(pl.id))
		}
		if pl.schema != "" {
			b.WriteString(" -> " + h.schemaStyle.Render(pl.schema))
		}
		if pl.stats != "" {
			b.WriteString(" " + h.statsStyle.Render(pl.stats))
		}
		out[i] = b.String()
	}
	return strings.Join(out, "\n")
}
