package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/ganttr/internal/gantt"
	"github.com/sadopc/ganttr/internal/planner"
	"github.com/sadopc/ganttr/internal/store"
)

type settingsModel struct {
	state  *planner.State
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	viewMode    *string
	redrawDelay *string
}

func newSettingsModel(st *planner.State) settingsModel {
	vm, rd := "", ""
	return settingsModel{
		state:       st,
		viewMode:    &vm,
		redrawDelay: &rd,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.state.Settings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	mode, delay := s.state.Preferences()
	*s.viewMode = mode.String()
	*s.redrawDelay = strconv.Itoa(int(delay / time.Millisecond))

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default zoom").
				Options(
					huh.NewOption("Day", gantt.ViewDay.String()),
					huh.NewOption("Week", gantt.ViewWeek.String()),
					huh.NewOption("Month", gantt.ViewMonth.String()),
				).Value(s.viewMode),
			huh.NewInput().Title("Connector redraw delay (ms)").Value(s.redrawDelay).Validate(validateDelay),
		).Title("Timeline"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateDelay(v string) error {
	ms, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || ms < 0 {
		return errors.New("enter a whole number of milliseconds")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		mode, delay, err := s.values()
		if err == nil {
			err = s.state.SetPreferences(mode, delay)
		}
		if err != nil {
			return s, statusCmd(fmt.Sprintf("Error: %v", err), true)
		}
		return s, tea.Batch(
			s.refresh(),
			func() tea.Msg { return settingsChangedMsg{mode: mode, delay: delay} },
		)
	}

	return s, cmd
}

// values parses the form fields.
func (s settingsModel) values() (gantt.ViewMode, time.Duration, error) {
	mode, err := gantt.ParseViewMode(*s.viewMode)
	if err != nil {
		return mode, 0, err
	}
	if err := validateDelay(*s.redrawDelay); err != nil {
		return mode, 0, err
	}
	ms, _ := strconv.Atoi(strings.TrimSpace(*s.redrawDelay))
	return mode, time.Duration(ms) * time.Millisecond, nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingRedrawDelay:
		if ms, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d ms", ms)
		}
	case store.SettingViewMode:
		if m, err := gantt.ParseViewMode(v); err == nil {
			return fmt.Sprintf("%s (%d days per column)", m, m.Step())
		}
	}
	return v
}
