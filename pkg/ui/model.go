// Package ui renders query results in the terminal: plain tables for batch
// output and an interactive browser over a workbook run.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"relcore/pkg/runner"
	"relcore/pkg/ui/base"
	"relcore/pkg/workbook"
)

// RunFunc executes one query again, e.g. runner.Runner.RunOne bound to a
// context.
type RunFunc func(q *workbook.Query) *runner.Result

type pane int

const (
	rowsPane pane = iota
	planPane
)

const sidebarWidth = 28

// Model browses the results of a workbook run. The left column lists the
// queries; the right pane shows the selected query's rows or its plan.
type Model struct {
	title   string
	results []*runner.Result
	run     RunFunc

	cursor    int
	pane      pane
	rows      table.Model
	plan      viewport.Model
	spinner   spinner.Model
	help      help.Model
	highlight *PlanHighlighter

	width     int
	height    int
	executing bool
	showHelp  bool
	keys      keyMap
}

func NewModel(title string, results []*runner.Result, run RunFunc) Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(primaryColor).
		BorderBottom(true).
		Bold(true).
		Foreground(primaryColor)
	s.Selected = s.Selected.
		Foreground(bgDark).
		Background(secondaryColor).
		Bold(false)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	m := Model{
		title:     title,
		results:   results,
		run:       run,
		rows:      t,
		plan:      viewport.New(80, 10),
		spinner:   sp,
		help:      help.New(),
		highlight: NewPlanHighlighter(),
		keys:      keys,
	}
	m.showSelected()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// resultMsg carries a re-run result back to the model.
type resultMsg struct {
	index  int
	result *runner.Result
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.executing {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.NextQuery):
			m.selectQuery(m.cursor + 1)
			return m, nil
		case key.Matches(msg, m.keys.PrevQuery):
			m.selectQuery(m.cursor - 1)
			return m, nil
		case key.Matches(msg, m.keys.SwitchPane):
			if m.pane == rowsPane {
				m.pane = planPane
			} else {
				m.pane = rowsPane
			}
			return m, nil
		case key.Matches(msg, m.keys.Rerun):
			if m.run == nil || len(m.results) == 0 {
				return m, nil
			}
			m.executing = true
			return m, tea.Batch(m.spinner.Tick, m.rerun(m.cursor))
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}

	case resultMsg:
		m.executing = false
		m.results[msg.index] = msg.result
		if msg.index == m.cursor {
			m.showSelected()
		}
		return m, nil

	case spinner.TickMsg:
		if m.executing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.pane == rowsPane {
		m.rows, cmd = m.rows.Update(msg)
	} else {
		m.plan, cmd = m.plan.Update(msg)
	}
	return m, cmd
}

func (m Model) rerun(index int) tea.Cmd {
	q := m.results[index].Query
	return func() tea.Msg {
		return resultMsg{index: index, result: m.run(q)}
	}
}

func (m *Model) selectQuery(i int) {
	if len(m.results) == 0 {
		return
	}
	m.cursor = base.Clamp(i, 0, len(m.results)-1)
	m.showSelected()
}

// showSelected loads the selected result into the table and plan viewport.
func (m *Model) showSelected() {
	m.rows.SetRows(nil)
	m.rows.SetColumns(nil)
	m.plan.SetContent("")
	if len(m.results) == 0 {
		return
	}

	res := m.results[m.cursor]
	if res.Explain != "" {
		m.plan.SetContent(m.highlight.Highlight(res.Explain))
	}
	if res.Relation == nil {
		return
	}

	td := res.Relation.Schema()
	data := make([]table.Row, res.Relation.Len())
	for i, row := range res.Relation.Tuples() {
		data[i] = cells(row)
	}

	columns := make([]table.Column, td.NumFields())
	for i, name := range td.Names() {
		col := make([]string, len(data))
		for r := range data {
			col[r] = data[r][i]
		}
		columns[i] = table.Column{Title: name, Width: base.ColumnWidth(name, col, 6, maxCellWidth)}
	}
	m.rows.SetColumns(columns)
	m.rows.SetRows(data)
	m.rows.GotoTop()
	m.plan.GotoTop()
}

func (m *Model) updateLayout() {
	height := max(m.height-10, 3)
	width := max(m.width-sidebarWidth-10, 20)
	m.rows.SetHeight(height)
	m.rows.SetWidth(width)
	m.plan.Width = width
	m.plan.Height = height
}

func (m Model) View() string {
	sections := []string{m.renderHeader()}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderPane())
	sections = append(sections, body, m.renderStatusBar())

	if m.showHelp {
		sections = append(sections, helpStyle.Render(m.help.FullHelpView(m.keys.FullHelp())))
	} else {
		sections = append(sections, m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return appStyle.Render(strings.Join(sections, "\n"))
}

func (m Model) renderHeader() string {
	failed := 0
	for _, r := range m.results {
		if r != nil && r.Err != nil {
			failed++
		}
	}
	summary := fmt.Sprintf("%d queries", len(m.results))
	if len(m.results) == 1 {
		summary = "1 query"
	}
	if failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	return lipgloss.JoinHorizontal(lipgloss.Left,
		titleStyle.Render("relcore"),
		badgeStyle.Render(m.title),
		lipgloss.NewStyle().Foreground(textMuted).MarginLeft(2).Render(summary),
	)
}

func (m Model) renderSidebar() string {
	lines := make([]string, 0, len(m.results)+1)
	lines = append(lines, paneTitleStyle.Render("Queries"))
	for i, r := range m.results {
		mark := okMarkStyle.Render("✓")
		if r.Err != nil {
			mark = failedMarkStyle.Render("✗")
		}
		name := base.Truncate(r.Query.Name, sidebarWidth-4)
		if i == m.cursor {
			name = selectedQueryStyle.Render(name)
		} else {
			name = queryStyle.Render(name)
		}
		lines = append(lines, mark+" "+name)
	}
	return sidebarStyle.Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

func (m Model) renderPane() string {
	if len(m.results) == 0 {
		return paneStyle.Render("no queries")
	}
	res := m.results[m.cursor]

	var title, content string
	switch {
	case m.executing:
		title = "Running " + res.Query.Name
		content = m.spinner.View() + " executing..."
	case m.pane == planPane:
		title = "Plan"
		content = m.plan.View()
	case res.Err != nil:
		title = "Error"
		content = errorStyle.Render(" ERROR ") + " " +
			lipgloss.NewStyle().Foreground(errorColor).Render(res.Err.Error())
	default:
		title = fmt.Sprintf("Rows (%s in %v)", base.Plural(res.Relation.Len(), "row"), res.Duration.Round(time.Microsecond))
		content = m.rows.View()
	}

	if res.Query.Description != "" && !m.executing {
		title += lipgloss.NewStyle().Foreground(textMuted).Render("  " + res.Query.Description)
	}
	return paneStyle.Render(paneTitleStyle.Render(title) + "\n" + content)
}

func (m Model) renderStatusBar() string {
	status := lipgloss.NewStyle().Foreground(accentColor).Render("● ready")
	if m.executing {
		status = lipgloss.NewStyle().Foreground(warningColor).Render("● running")
	}

	var detail string
	if len(m.results) > 0 {
		res := m.results[m.cursor]
		detail = fmt.Sprintf(" | %s | %v", res.Query.Name, res.Duration.Round(time.Microsecond))
	}
	return statusBarStyle.
		Width(max(m.width-4, 0)).
		Render(status + lipgloss.NewStyle().Foreground(textMuted).Render(detail))
}
