package tui

import "github.com/charmbracelet/lipgloss"

// Palette. The primary colour is the first task colour so new bars match the
// chrome around them.
var (
	colorPrimary   = lipgloss.Color("#4F46E5")
	colorSecondary = lipgloss.Color("#06B6D4")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorFg        = lipgloss.Color("#E5E7EB")
	colorSubtle    = lipgloss.Color("#374151")
	colorHighlight = lipgloss.Color("#A5B4FC")

	// timeline canvas
	colorGrid      = colorSubtle
	colorConnector = colorHighlight
	colorOnBar     = lipgloss.Color("#FFFFFF")
)

var (
	tabStyle = lipgloss.NewStyle().Padding(0, 2)

	activeTabStyle = tabStyle.
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary)

	inactiveTabStyle = tabStyle.Foreground(colorMuted)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	// Details and the export picker sit on top of the current view.
	activePanelStyle = panelStyle.BorderForeground(colorPrimary)

	rangeLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary)

	modeBadgeStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorPrimary).
			Padding(0, 1)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)

	successStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	highlightStyle = lipgloss.NewStyle().Foreground(colorHighlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorFg)
)
