package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"github.com/sadopc/ganttr/internal/export"
	"github.com/sadopc/ganttr/internal/gantt"
	"github.com/sadopc/ganttr/internal/planner"
)

// App is the root Bubble Tea model.
type App struct {
	state  *planner.State
	log    *zap.Logger
	zones  *zone.Manager
	clicks *gantt.ClickNotifier
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	timeline timelineModel
	projects projectsModel
	summary  summaryModel
	users    usersModel
	settings settingsModel
	detail   detailModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(st *planner.State, log *zap.Logger) App {
	if log == nil {
		log = zap.NewNop()
	}
	h := help.New()
	h.ShowAll = false

	zones := zone.New()
	clicks := &gantt.ClickNotifier{}
	// Selecting a task opens its details.
	clicks.Subscribe(func(id string) {
		st.SetSelectedTaskID(id)
		log.Debug("task clicked", zap.String("task_id", id))
	})

	timeline := newTimelineModel(st, clicks, zones, log)
	timeline.apply(st.Preferences())

	return App{
		state:      st,
		log:        log,
		zones:      zones,
		clicks:     clicks,
		activeView: viewTimeline,
		timeline:   timeline,
		projects:   newProjectsModel(st, log),
		summary:    newSummaryModel(st),
		users:      newUsersModel(st, log),
		settings:   newSettingsModel(st),
		detail:     newDetailModel(st, log),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("ganttr"),
		a.projects.refresh(),
		a.users.refresh(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timeline.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.summary.setSize(a.width, contentHeight)
		a.users.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.detail.setSize(a.width, contentHeight)
		cmd := a.timeline.relayout()
		return a, tea.Batch(cmd, a.summary.refresh())

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		if key.Matches(msg, keys.Quit) {
			return a, tea.Quit
		}
		if a.detail.open() {
			var cmd tea.Cmd
			a.detail, cmd = a.detail.update(msg)
			return a, cmd
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewTimeline)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewProjects)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewSummary)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewUsers)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tea.MouseMsg:
		if a.activeView != viewTimeline || a.isFormActive() || a.detail.open() {
			return a, nil
		}

	case redrawMsg:
		// Always route connector passes to the timeline.
		var cmd tea.Cmd
		a.timeline, cmd = a.timeline.update(msg)
		return a, cmd

	case taskSelectedMsg:
		a.detail.formActive = false
		a.detail.form = nil
		return a, nil

	case projectSelectedMsg:
		a.activeView = viewTimeline
		cmd := a.timeline.relayout()
		return a, tea.Batch(cmd, a.summary.refresh(), a.projects.refresh())

	case dataChangedMsg:
		cmd := a.timeline.relayout()
		return a, tea.Batch(cmd, a.summary.refresh(), a.projects.refresh())

	case settingsChangedMsg:
		a.timeline.apply(msg.mode, msg.delay)
		a.status = "Settings saved"
		a.statusErr = false
		cmd := a.timeline.relayout()
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		if msg.isError {
			a.log.Warn("status", zap.String("text", msg.text))
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case projectsDataMsg:
		var cmd tea.Cmd
		a.projects, cmd = a.projects.update(msg)
		return a, cmd

	case usersDataMsg:
		var cmd tea.Cmd
		a.users, cmd = a.users.update(msg)
		return a, cmd

	case summaryDataMsg:
		var cmd tea.Cmd
		a.summary, cmd = a.summary.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	cmd := a.refreshCurrentView()
	return a, cmd
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if a.detail.open() {
		a.detail, cmd = a.detail.update(msg)
		return a, cmd
	}
	switch a.activeView {
	case viewTimeline:
		a.timeline, cmd = a.timeline.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewSummary:
		a.summary, cmd = a.summary.update(msg)
	case viewUsers:
		a.users, cmd = a.users.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	if a.detail.open() {
		return a.detail.formActive
	}
	switch a.activeView {
	case viewTimeline:
		return a.timeline.formActive
	case viewProjects:
		return a.projects.formActive
	case viewUsers:
		return a.users.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a *App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTimeline:
		return a.timeline.relayout()
	case viewProjects:
		return a.projects.refresh()
	case viewSummary:
		return a.summary.refresh()
	case viewUsers:
		return a.users.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch {
	case a.detail.open():
		content = a.detail.view()
	case a.activeView == viewTimeline:
		content = a.timeline.view()
	case a.activeView == viewProjects:
		content = a.projects.view()
	case a.activeView == viewSummary:
		content = a.summary.view()
	case a.activeView == viewUsers:
		content = a.users.view()
	case a.activeView == viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return a.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, header, content, footer))
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("ganttr")
	if p := a.state.Current(); p != nil {
		title += subtitleStyle.Render(" · " + truncate(p.Name, 24))
	}
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(status)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Tasks")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	p := a.state.Current()
	if p == nil {
		return statusCmd("Select a project to export", true)
	}
	return func() tea.Msg {
		users, err := a.state.Users()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		name := fmt.Sprintf("ganttr-%s-%s", slug(p.Name), time.Now().Format("2006-01-02"))

		var path string
		if format == 0 {
			path = filepath.Join(home, name+".csv")
			if err := export.ToCSV(p, users, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, name+".json")
			if err := export.ToJSON(p, users, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}

// slug turns a project name into a file name fragment.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "project"
	}
	return s
}
