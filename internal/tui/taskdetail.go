package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/ganttr/internal/gantt"
	"github.com/sadopc/ganttr/internal/planner"
	"github.com/sadopc/ganttr/internal/store"
)

// detailModel is the task details panel. It is open while the planner has a
// selected task.
type detailModel struct {
	state  *planner.State
	log    *zap.Logger
	width  int
	height int

	formActive bool
	form       *huh.Form
	formType   string // "edit" or "delete"
	fields     taskFields
	confirm    *bool
}

func newDetailModel(st *planner.State, log *zap.Logger) detailModel {
	confirm := false
	return detailModel{
		state:   st,
		log:     log,
		fields:  newTaskFields(),
		confirm: &confirm,
	}
}

func (d *detailModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d detailModel) open() bool {
	return d.state.SelectedTaskID() != ""
}

func (d detailModel) close() detailModel {
	d.state.SetSelectedTaskID("")
	d.formActive = false
	d.form = nil
	return d
}

func (d detailModel) update(msg tea.Msg) (detailModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Back):
			return d.close(), nil
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			return d.showEditForm()
		case key.Matches(msg, keys.Delete):
			return d.showDeleteForm()
		}
	}
	return d, nil
}

func (d detailModel) showEditForm() (detailModel, tea.Cmd) {
	task := d.state.SelectedTask()
	p := d.state.Current()
	if task == nil || p == nil {
		return d, nil
	}
	users, err := d.state.Users()
	if err != nil {
		return d, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}

	others := make([]store.Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		if t.ID != task.ID {
			others = append(others, t)
		}
	}

	d.fields.fill(*task)
	d.form = d.fields.form(others, users)
	d.formType = "edit"
	d.formActive = true
	return d, d.form.Init()
}

func (d detailModel) showDeleteForm() (detailModel, tea.Cmd) {
	task := d.state.SelectedTask()
	if task == nil {
		return d, nil
	}
	*d.confirm = false
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", task.Title)).
				Description("Tasks depending on it keep a reference that is no longer drawn.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(d.confirm),
		),
	).WithShowHelp(true)
	d.formType = "delete"
	d.formActive = true
	return d, d.form.Init()
}

func (d detailModel) updateForm(msg tea.Msg) (detailModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}
	if d.form.State != huh.StateCompleted {
		return d, cmd
	}

	d.formActive = false
	d.form = nil
	id := d.state.SelectedTaskID()

	switch d.formType {
	case "edit":
		patch, err := d.fields.patch()
		if err == nil {
			_, err = d.state.UpdateTask(id, patch)
		}
		if err != nil {
			d.log.Warn("update task failed", zap.String("task_id", id), zap.Error(err))
			return d, statusCmd(fmt.Sprintf("Error: %v", err), true)
		}
		return d, tea.Batch(statusCmd("Task saved", false), dataChanged)

	case "delete":
		if !*d.confirm {
			return d, nil
		}
		if err := d.state.DeleteTask(id); err != nil {
			d.log.Warn("delete task failed", zap.String("task_id", id), zap.Error(err))
			return d, statusCmd(fmt.Sprintf("Error: %v", err), true)
		}
		d = d.close()
		return d, tea.Batch(statusCmd("Task deleted", false), dataChanged)
	}
	return d, nil
}

func dataChanged() tea.Msg { return dataChangedMsg{} }

func (d detailModel) view() string {
	w := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("Edit Task")
		if d.formType == "delete" {
			title = titleStyle.Render("Delete Task")
		}
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
		)
	}

	task := d.state.SelectedTask()
	if task == nil {
		return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Task"),
			"",
			mutedStyle.Render("This task no longer exists. Press esc to go back."),
		))
	}
	p := d.state.Current()
	users, _ := d.state.Users()

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(task.Color)).Render("●")
	rows := []string{
		titleStyle.Render(fmt.Sprintf("%s %s", dot, task.Title)),
		"",
	}
	if task.Description != "" {
		rows = append(rows, task.Description, "")
	}

	field := func(label, value string) string {
		return fmt.Sprintf("  %s %s", mutedStyle.Width(14).Render(label), value)
	}
	rows = append(rows,
		field("Dates", fmt.Sprintf("%s - %s", gantt.FormatLong(task.Start), gantt.FormatLong(task.End))),
		field("Duration", formatDays(gantt.DaysBetween(task.Start, task.End))),
		field("Progress", progressBar(task.Progress, 20)+fmt.Sprintf(" %d%%", task.Progress)),
	)

	var deps []string
	for _, id := range task.DependsOn {
		if dep := p.TaskByID(id); dep != nil {
			deps = append(deps, dep.Title)
		}
	}
	rows = append(rows,
		field("Depends on", listOrNone(deps)),
		field("Assignees", listOrNone(planner.Names(users, task.Assignees))),
		"",
		mutedStyle.Render("  e: edit  d: delete  esc: close"),
	)

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func progressBar(progress, width int) string {
	filled := gantt.ProgressWidth(width, progress)
	return successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return mutedStyle.Render("none")
	}
	return strings.Join(items, ", ")
}
