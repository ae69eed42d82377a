package ui

import (
	"relcore/pkg/ui/base"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor   = base.Adaptive(func(p base.ColorPalette) lipgloss.Color { return p.Primary })
	secondaryColor = base.Adaptive(func(p base.ColorPalette) lipgloss.Color { return p.Secondary })
	accentColor    = base.Adaptive(func(p base.ColorPalette) lipgloss.Color { return p.Accent })
	warningColor   = base.Adaptive(func(p base.ColorPalette) lipgloss.Color { return p.Warning })
	errorColor     = base.Adaptive(func(p base.ColorPalette) lipgloss.Color { return p.Error })
	textMuted      = base.Adaptive(func(p base.ColorPalette) lipgloss.Color { return p.Muted })

	bgDark        = lipgloss.Color("#0F172A")
	bgMedium      = lipgloss.Color("#1E293B")
	bgLight       = lipgloss.Color("#334155")
	textPrimary   = lipgloss.Color("#F8FAFC")
	textSecondary = lipgloss.Color("#CBD5E1")
)

var (
	appStyle = lipgloss.NewStyle().
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B5CF6")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 2)

	badgeStyle = lipgloss.NewStyle().
			Background(secondaryColor).
			Foreground(bgDark).
			Bold(true).
			Padding(0, 1).
			MarginLeft(2)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(bgLight).
			Padding(0, 1).
			MarginRight(1)

	queryStyle = lipgloss.NewStyle().
			Foreground(textSecondary)

	selectedQueryStyle = lipgloss.NewStyle().
				Foreground(bgDark).
				Background(secondaryColor).
				Bold(true)

	failedMarkStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	okMarkStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	paneTitleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(bgMedium).
			Foreground(textSecondary).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Background(errorColor).
			Foreground(textPrimary).
			Bold(true).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)
