package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/ganttr/internal/gantt"
	"github.com/sadopc/ganttr/internal/planner"
	"github.com/sadopc/ganttr/internal/store"
)

type projectsModel struct {
	state  *planner.State
	log    *zap.Logger
	width  int
	height int

	projects []store.Project
	cursor   int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName        *string
	formDescription *string
	formStart       *string
	formEnd         *string
}

func newProjectsModel(st *planner.State, log *zap.Logger) projectsModel {
	name, desc, start, end := "", "", "", ""
	return projectsModel{
		state:           st,
		log:             log,
		formName:        &name,
		formDescription: &desc,
		formStart:       &start,
		formEnd:         &end,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	projects []store.Project
}

func (p projectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		projects, err := p.state.Projects()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return projectsDataMsg{projects: projects}
	}
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		p.projects = msg.projects
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.projects)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if len(p.projects) > 0 {
				return p, p.selectProject(p.projects[p.cursor].ID)
			}
		case key.Matches(msg, keys.New):
			return p.showNewProjectForm()
		}
	}
	return p, nil
}

func (p projectsModel) selectProject(id string) tea.Cmd {
	proj, err := p.state.SelectProject(id)
	if err != nil {
		return statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	if proj == nil {
		return tea.Batch(statusCmd("Project no longer exists", true), p.refresh())
	}
	return tea.Batch(
		statusCmd("Opened "+proj.Name, false),
		func() tea.Msg { return projectSelectedMsg{} },
	)
}

func (p projectsModel) showNewProjectForm() (projectsModel, tea.Cmd) {
	today := gantt.Midnight(time.Now())
	*p.formName = ""
	*p.formDescription = ""
	*p.formStart = today.Format(time.DateOnly)
	*p.formEnd = today.AddDate(0, 1, 0).Format(time.DateOnly)

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(p.formName).Validate(required("name")),
			huh.NewText().Title("Description").Value(p.formDescription).Lines(3),
			huh.NewInput().Title("Start (YYYY-MM-DD)").Value(p.formStart).Validate(validateDate),
			huh.NewInput().Title("End (YYYY-MM-DD)").Value(p.formEnd).Validate(p.validateEnd),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) validateEnd(s string) error {
	end, err := parseDate(s)
	if err != nil {
		return validateDate(s)
	}
	start, err := parseDate(*p.formStart)
	if err != nil {
		return nil
	}
	return planner.ValidateRange(start, end)
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		return p, p.createProject()
	}

	return p, cmd
}

// createProject adds the project from the form and opens it when no project
// is active yet.
func (p projectsModel) createProject() tea.Cmd {
	start, err := parseDate(*p.formStart)
	if err != nil {
		return statusCmd(fmt.Sprintf("Error: start: %v", err), true)
	}
	end, err := parseDate(*p.formEnd)
	if err != nil {
		return statusCmd(fmt.Sprintf("Error: end: %v", err), true)
	}

	created, err := p.state.AddProject(store.Project{
		Name:        *p.formName,
		Description: *p.formDescription,
		Start:       start,
		End:         end,
	})
	if err != nil {
		p.log.Warn("add project failed", zap.Error(err))
		return statusCmd(fmt.Sprintf("Error: %v", err), true)
	}

	if p.state.Current() == nil {
		return tea.Batch(p.refresh(), p.selectProject(created.ID))
	}
	return tea.Batch(p.refresh(), statusCmd("Project created", false))
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Project")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}
	return p.renderProjectList()
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("    %-28s %-28s %6s", "Name", "Dates", "Tasks"))
	rows = append(rows, header)

	activeID := ""
	if cur := p.state.Current(); cur != nil {
		activeID = cur.ID
	}

	for i, proj := range p.projects {
		marker := " "
		if proj.ID == activeID {
			marker = successStyle.Render("●")
		}
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		dates := fmt.Sprintf("%s - %s", gantt.FormatShort(proj.Start), gantt.FormatLong(proj.End))
		row := style.Render(fmt.Sprintf("%s%-28s %-28s %6d", cursor, truncate(proj.Name, 28), dates, len(proj.Tasks)))
		rows = append(rows, marker+" "+row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: open on timeline"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
