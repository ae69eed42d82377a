package base

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Truncate shortens s to at most width terminal cells, marking the cut with
// an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// ColumnWidth is the width needed to show title and every cell, bounded to
// [lo, hi].
func ColumnWidth(title string, cells []string, lo, hi int) int {
	w := lipgloss.Width(title)
	for _, c := range cells {
		w = max(w, lipgloss.Width(c))
	}
	return Clamp(w+2, lo, hi)
}

// Plural renders "1 row" or "n rows".
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
