package tui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/ganttr/internal/planner"
	"github.com/sadopc/ganttr/internal/store"
)

var taskColorNames = []string{"Indigo", "Green", "Amber", "Red", "Purple", "Pink", "Cyan", "Orange"}

// taskFields holds form values behind pointers so they survive the value
// copies Bubble Tea makes of the models.
type taskFields struct {
	title       *string
	description *string
	start       *string
	end         *string
	progress    *string
	color       *string
	deps        *[]string
	assignees   *[]string
}

func newTaskFields() taskFields {
	var title, desc, start, end, progress, color string
	var deps, assignees []string
	return taskFields{
		title:       &title,
		description: &desc,
		start:       &start,
		end:         &end,
		progress:    &progress,
		color:       &color,
		deps:        &deps,
		assignees:   &assignees,
	}
}

// fill loads t into the fields.
func (f taskFields) fill(t store.Task) {
	*f.title = t.Title
	*f.description = t.Description
	*f.start = t.Start.Format(time.DateOnly)
	*f.end = t.End.Format(time.DateOnly)
	*f.progress = strconv.Itoa(t.Progress)
	*f.color = t.Color
	if *f.color == "" {
		*f.color = planner.TaskColors[0]
	}
	*f.deps = append([]string(nil), t.DependsOn...)
	*f.assignees = append([]string(nil), t.Assignees...)
}

// form builds the huh form. others are the tasks that may be picked as
// dependencies.
func (f taskFields) form(others []store.Task, users []store.User) *huh.Form {
	colorOptions := make([]huh.Option[string], len(planner.TaskColors))
	for i, c := range planner.TaskColors {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●")
		colorOptions[i] = huh.NewOption(fmt.Sprintf("%s %s", dot, taskColorNames[i]), c)
	}

	details := huh.NewGroup(
		huh.NewInput().Title("Title").Value(f.title).Validate(required("title")),
		huh.NewText().Title("Description").Value(f.description).Lines(3),
		huh.NewInput().Title("Start (YYYY-MM-DD)").Value(f.start).Validate(validateDate),
		huh.NewInput().Title("End (YYYY-MM-DD)").Value(f.end).Validate(f.validateEnd),
		huh.NewInput().Title("Progress (%)").Value(f.progress).Validate(validateProgress),
	).Title("Task")

	links := []huh.Field{
		huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(f.color),
	}
	if len(others) > 0 {
		opts := make([]huh.Option[string], len(others))
		for i, t := range others {
			opts[i] = huh.NewOption(t.Title, t.ID).Selected(slices.Contains(*f.deps, t.ID))
		}
		links = append(links, huh.NewMultiSelect[string]().Title("Depends on").Options(opts...).Value(f.deps))
	}
	if len(users) > 0 {
		opts := make([]huh.Option[string], len(users))
		for i, u := range users {
			opts[i] = huh.NewOption(u.Name, u.ID).Selected(slices.Contains(*f.assignees, u.ID))
		}
		links = append(links, huh.NewMultiSelect[string]().Title("Assignees").Options(opts...).Value(f.assignees))
	}

	return huh.NewForm(details, huh.NewGroup(links...).Title("Links")).
		WithShowHelp(true).
		WithShowErrors(true)
}

func (f taskFields) validateEnd(s string) error {
	end, err := parseDate(s)
	if err != nil {
		return err
	}
	start, err := parseDate(*f.start)
	if err != nil {
		return nil // reported on the start field
	}
	return planner.ValidateRange(start, end)
}

// task converts the fields into a new task record.
func (f taskFields) task() (store.Task, error) {
	start, end, progress, err := f.parse()
	if err != nil {
		return store.Task{}, err
	}
	return store.Task{
		Title:       *f.title,
		Description: *f.description,
		Start:       start,
		End:         end,
		Progress:    progress,
		DependsOn:   append([]string(nil), *f.deps...),
		Assignees:   append([]string(nil), *f.assignees...),
		Color:       *f.color,
	}, nil
}

// patch converts the fields into a full patch for an existing task.
func (f taskFields) patch() (planner.TaskPatch, error) {
	t, err := f.task()
	if err != nil {
		return planner.TaskPatch{}, err
	}
	return planner.TaskPatch{
		Title:       &t.Title,
		Description: &t.Description,
		Start:       &t.Start,
		End:         &t.End,
		Progress:    &t.Progress,
		DependsOn:   &t.DependsOn,
		Assignees:   &t.Assignees,
		Color:       &t.Color,
	}, nil
}

func (f taskFields) parse() (time.Time, time.Time, int, error) {
	start, err := parseDate(*f.start)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("start: %w", err)
	}
	end, err := parseDate(*f.end)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("end: %w", err)
	}
	progress, err := strconv.Atoi(strings.TrimSpace(*f.progress))
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("progress: %w", err)
	}
	return start, end, progress, nil
}

var errProgressRange = errors.New("progress must be between 0 and 100")

func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, strings.TrimSpace(s))
}

func validateDate(s string) error {
	if _, err := parseDate(s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func validateProgress(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 100 {
		return errProgressRange
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
