package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"relcore/pkg/runner"
	"relcore/pkg/workbook"
)

const browseWorkbook = `
relations:
  - name: orders
    columns:
      - {name: order_id, type: int}
      - {name: region, type: text}
    rows:
      - [1, West]
      - [2, East]
queries:
  - name: everything
    description: all orders
    plan:
      scan: {relation: orders}
  - name: missing
    plan:
      scan: {relation: nowhere}
`

func newBrowser(t *testing.T) (Model, *int) {
	t.Helper()
	wb, err := workbook.Parse([]byte(browseWorkbook))
	require.NoError(t, err)

	r := runner.New(wb.Catalog, runner.Options{Parallelism: 2})
	results, err := r.Run(context.Background(), wb.Queries)
	require.NoError(t, err)

	runs := 0
	run := func(q *workbook.Query) *runner.Result {
		runs++
		return r.RunOne(context.Background(), q)
	}
	return NewModel("orders.yaml", results, run), &runs
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_InitialView(t *testing.T) {
	m, _ := newBrowser(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	view := m.View()
	require.Contains(t, view, "orders.yaml")
	require.Contains(t, view, "2 queries, 1 failed")
	require.Contains(t, view, "everything")
	require.Contains(t, view, "missing")
	require.Contains(t, view, "Rows (2 rows")
	require.Contains(t, view, "all orders")
	require.Len(t, m.rows.Rows(), 2)
	require.Equal(t, "West", m.rows.Rows()[0][1])
}

func TestModel_SelectQuery(t *testing.T) {
	m, _ := newBrowser(t)

	m, _ = press(t, m, runes("j"))
	require.Equal(t, 1, m.cursor)
	require.Contains(t, m.View(), "ERROR")
	require.Empty(t, m.rows.Rows())

	m, _ = press(t, m, runes("j"))
	require.Equal(t, 1, m.cursor, "cursor stays on the last query")

	m, _ = press(t, m, runes("k"))
	require.Equal(t, 0, m.cursor)
	require.Len(t, m.rows.Rows(), 2)
}

func TestModel_SwitchPane(t *testing.T) {
	m, _ := newBrowser(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, planPane, m.pane)
	view := m.View()
	require.Contains(t, view, "Plan")
	require.Contains(t, view, "Scan orders")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, rowsPane, m.pane)
}

func TestModel_Rerun(t *testing.T) {
	m, runs := newBrowser(t)
	before := m.results[0]

	m, cmd := press(t, m, runes("r"))
	require.True(t, m.executing)
	require.NotNil(t, cmd)
	require.Contains(t, m.View(), "Running everything")

	// keys other than quit are ignored while running
	m, _ = press(t, m, runes("j"))
	require.Equal(t, 0, m.cursor)

	next, _ := m.Update(m.rerun(0)())
	m = next.(Model)
	require.False(t, m.executing)
	require.Equal(t, 1, *runs)
	require.NotSame(t, before, m.results[0])
	require.NoError(t, m.results[0].Err)
}

func TestModel_RerunResultForOtherQuery(t *testing.T) {
	m, _ := newBrowser(t)
	m.executing = true

	failed := &runner.Result{Query: m.results[1].Query, Err: errors.New("boom")}
	next, _ := m.Update(resultMsg{index: 1, result: failed})
	m = next.(Model)

	require.False(t, m.executing)
	require.Same(t, failed, m.results[1])
	require.Len(t, m.rows.Rows(), 2, "selected query view is unchanged")
}

func TestModel_Help(t *testing.T) {
	m, _ := newBrowser(t)
	require.NotContains(t, m.View(), "previous query")

	m, _ = press(t, m, runes("?"))
	require.True(t, m.showHelp)
	require.Contains(t, m.View(), "previous query")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newBrowser(t)
	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}
