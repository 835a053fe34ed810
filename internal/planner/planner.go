// Package planner is the application state shared by the UI: the active
// project, the selected task, and the commands that mutate records.
package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/ganttr/internal/gantt"
	"github.com/sadopc/ganttr/internal/store"
)

var (
	ErrInvalidRange    = errors.New("start date is after end date")
	ErrNoActiveProject = errors.New("no active project")
	ErrTitleRequired   = errors.New("title is required")
)

// TaskColors is the palette offered when creating tasks.
var TaskColors = []string{
	"#4F46E5", // indigo
	"#10B981", // green
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // purple
	"#EC4899", // pink
	"#06B6D4", // cyan
	"#F97316", // orange
}

// TaskPatch lists the fields to change on a task. Nil fields are left as is.
type TaskPatch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Progress    *int
	DependsOn   *[]string
	Assignees   *[]string
	Color       *string
}

// State is the single application state object. All mutation goes through
// its methods.
type State struct {
	store *store.Store
	log   *zap.Logger

	current        *store.Project
	selectedTaskID string
}

func New(s *store.Store, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	return &State{store: s, log: log}
}

// ValidateRange rejects a start date after the end date.
func ValidateRange(start, end time.Time) error {
	if gantt.Midnight(start).After(gantt.Midnight(end)) {
		return fmt.Errorf("%s > %s: %w", start.Format(time.DateOnly), end.Format(time.DateOnly), ErrInvalidRange)
	}
	return nil
}

func (st *State) Projects() ([]store.Project, error) {
	return st.store.ListProjects()
}

// Current is the active project, or nil.
func (st *State) Current() *store.Project {
	return st.current
}

func (st *State) AddProject(p store.Project) (*store.Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, fmt.Errorf("add project: %w", ErrTitleRequired)
	}
	p.Start, p.End = gantt.Midnight(p.Start), gantt.Midnight(p.End)
	if err := ValidateRange(p.Start, p.End); err != nil {
		return nil, fmt.Errorf("add project: %w", err)
	}

	created, err := st.store.CreateProject(p)
	if err != nil {
		return nil, err
	}
	st.log.Info("project added", zap.String("project_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// SelectProject makes the project with id active. An unknown id clears the
// selection and returns a nil project without error.
func (st *State) SelectProject(id string) (*store.Project, error) {
	p, err := st.store.GetProject(id)
	if errors.Is(err, store.ErrNotFound) {
		st.current = nil
		st.selectedTaskID = ""
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if st.current == nil || st.current.ID != p.ID {
		st.selectedTaskID = ""
	}
	st.current = p
	st.log.Debug("project selected", zap.String("project_id", id), zap.Int("tasks", len(p.Tasks)))
	return p, nil
}

// reload refreshes the active project after a task mutation.
func (st *State) reload() error {
	if st.current == nil {
		return nil
	}
	p, err := st.store.GetProject(st.current.ID)
	if err != nil {
		return err
	}
	st.current = p
	return nil
}

// AddTask appends t to the active project.
func (st *State) AddTask(t store.Task) (*store.Task, error) {
	if st.current == nil {
		return nil, fmt.Errorf("add task: %w", ErrNoActiveProject)
	}
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return nil, fmt.Errorf("add task: %w", ErrTitleRequired)
	}
	t.Start, t.End = gantt.Midnight(t.Start), gantt.Midnight(t.End)
	if err := ValidateRange(t.Start, t.End); err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	t.ProjectID = st.current.ID
	t.DependsOn = st.projectDeps(st.current, t.DependsOn, t.ID)
	t.Progress = clampProgress(t.Progress)
	if t.Color == "" {
		t.Color = TaskColors[0]
	}

	created, err := st.store.CreateTask(t)
	if err != nil {
		return nil, err
	}
	st.log.Info("task added",
		zap.String("project_id", t.ProjectID),
		zap.String("task_id", created.ID),
		zap.Strings("depends_on", created.DependsOn),
	)
	return created, st.reload()
}

// UpdateTask applies patch to the task with id. Fields not named in the patch
// keep their values.
func (st *State) UpdateTask(id string, patch TaskPatch) (*store.Task, error) {
	t, err := st.store.GetTask(id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("update task: %w", ErrTitleRequired)
		}
		t.Title = title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Start != nil {
		t.Start = gantt.Midnight(*patch.Start)
	}
	if patch.End != nil {
		t.End = gantt.Midnight(*patch.End)
	}
	if err := ValidateRange(t.Start, t.End); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if patch.Progress != nil {
		t.Progress = clampProgress(*patch.Progress)
	}
	if patch.DependsOn != nil {
		p, err := st.store.GetProject(t.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("update task: %w", err)
		}
		t.DependsOn = st.projectDeps(p, *patch.DependsOn, t.ID)
	}
	if patch.Assignees != nil {
		t.Assignees = append([]string(nil), (*patch.Assignees)...)
	}
	if patch.Color != nil {
		t.Color = *patch.Color
	}

	if err := st.store.UpdateTask(*t); err != nil {
		return nil, err
	}
	st.log.Info("task updated", zap.String("task_id", id), zap.Int("progress", t.Progress))

	updated, err := st.store.GetTask(id)
	if err != nil {
		return nil, err
	}
	return updated, st.reload()
}

func (st *State) DeleteTask(id string) error {
	if err := st.store.DeleteTask(id); err != nil {
		return err
	}
	if st.selectedTaskID == id {
		st.selectedTaskID = ""
	}
	st.log.Info("task deleted", zap.String("task_id", id))
	return st.reload()
}

func (st *State) Users() ([]store.User, error) {
	return st.store.ListUsers()
}

func (st *State) AddUser(u store.User) (*store.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return nil, fmt.Errorf("add user: %w", ErrTitleRequired)
	}
	created, err := st.store.CreateUser(u)
	if err != nil {
		return nil, err
	}
	st.log.Info("user added", zap.String("user_id", created.ID))
	return created, nil
}

// RemoveUser deletes a user; tasks keep the now dangling assignment.
func (st *State) RemoveUser(id string) error {
	if err := st.store.DeleteUser(id); err != nil {
		return err
	}
	st.log.Info("user removed", zap.String("user_id", id))
	return nil
}

func (st *State) SelectedTaskID() string {
	return st.selectedTaskID
}

// SetSelectedTaskID opens (non-empty id) or closes (empty id) task details.
func (st *State) SetSelectedTaskID(id string) {
	st.selectedTaskID = id
}

// SelectedTask resolves the selected id against the active project.
func (st *State) SelectedTask() *store.Task {
	if st.current == nil || st.selectedTaskID == "" {
		return nil
	}
	return st.current.TaskByID(st.selectedTaskID)
}

func (st *State) Setting(key, fallback string) string {
	v, err := st.store.GetSetting(key)
	if err != nil {
		return fallback
	}
	return v
}

func (st *State) SetSetting(key, value string) error {
	if err := st.store.SetSetting(key, value); err != nil {
		return err
	}
	st.log.Debug("setting changed", zap.String("key", key), zap.String("value", value))
	return nil
}

// Preferences returns the timeline zoom level and redraw delay, falling back
// to week and the default delay for missing or malformed values.
func (st *State) Preferences() (gantt.ViewMode, time.Duration) {
	mode, err := st.store.ViewMode()
	if err != nil {
		st.log.Debug("view mode fallback", zap.Error(err))
		mode = gantt.ViewWeek
	}
	delay, err := st.store.RedrawDelay()
	if err != nil {
		st.log.Debug("redraw delay fallback", zap.Error(err))
		delay = gantt.DefaultRedrawDelay
	}
	return mode, delay
}

func (st *State) SetPreferences(mode gantt.ViewMode, delay time.Duration) error {
	if err := st.store.SetViewMode(mode); err != nil {
		return err
	}
	if err := st.store.SetRedrawDelay(delay); err != nil {
		return err
	}
	st.log.Debug("preferences changed", zap.Stringer("view_mode", mode), zap.Duration("redraw_delay", delay))
	return nil
}

func (st *State) Settings() ([]store.Setting, error) {
	return st.store.GetAllSettings()
}

// projectDeps keeps the ids that name another task of p, in order. Links to
// other projects, unknown tasks and the task itself are dropped.
func (st *State) projectDeps(p *store.Project, ids []string, self string) []string {
	deps := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == self || p.TaskByID(id) == nil {
			st.log.Debug("dependency dropped", zap.String("task_id", self), zap.String("depends_on", id))
			continue
		}
		deps = append(deps, id)
	}
	return deps
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
