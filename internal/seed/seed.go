// Package seed imports users, projects and tasks from a YAML plan file.
package seed

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/ganttr/internal/planner"
	"github.com/sadopc/ganttr/internal/store"
)

type File struct {
	Users    []User    `yaml:"users"`
	Projects []Project `yaml:"projects"`
}

type User struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Avatar string `yaml:"avatar"`
}

type Project struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	Tasks       []Task `yaml:"tasks"`
}

type Task struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Start       string   `yaml:"start"`
	End         string   `yaml:"end"`
	Progress    int      `yaml:"progress"`
	DependsOn   []string `yaml:"depends_on"`
	Assignees   []string `yaml:"assignees"`
	Color       string   `yaml:"color"`
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &f, nil
}

// Apply feeds the file through the planner's commands, so every record is
// validated exactly like one entered by hand. The first project becomes
// active when nothing else is.
func (f *File) Apply(st *planner.State) error {
	for _, u := range f.Users {
		if _, err := st.AddUser(store.User{ID: u.ID, Name: u.Name, Avatar: u.Avatar}); err != nil {
			return fmt.Errorf("user %q: %w", u.Name, err)
		}
	}

	previous := st.Current()
	var first string
	for _, sp := range f.Projects {
		start, end, err := parseRange(sp.Start, sp.End)
		if err != nil {
			return fmt.Errorf("project %q: %w", sp.Name, err)
		}
		p, err := st.AddProject(store.Project{
			ID:          sp.ID,
			Name:        sp.Name,
			Description: sp.Description,
			Start:       start,
			End:         end,
		})
		if err != nil {
			return fmt.Errorf("project %q: %w", sp.Name, err)
		}
		if first == "" {
			first = p.ID
		}
		if _, err := st.SelectProject(p.ID); err != nil {
			return err
		}
		// Dependencies are linked once every task of the project exists, so
		// a task may depend on one listed after it.
		links := make(map[string][]string)
		var order []string
		for _, tk := range sp.Tasks {
			start, end, err := parseRange(tk.Start, tk.End)
			if err != nil {
				return fmt.Errorf("task %q: %w", tk.Title, err)
			}
			created, err := st.AddTask(store.Task{
				ID:          tk.ID,
				Title:       tk.Title,
				Description: tk.Description,
				Start:       start,
				End:         end,
				Progress:    tk.Progress,
				Assignees:   tk.Assignees,
				Color:       tk.Color,
			})
			if err != nil {
				return fmt.Errorf("task %q: %w", tk.Title, err)
			}
			if len(tk.DependsOn) > 0 {
				links[created.ID] = tk.DependsOn
				order = append(order, created.ID)
			}
		}
		for _, id := range order {
			deps := links[id]
			if _, err := st.UpdateTask(id, planner.TaskPatch{DependsOn: &deps}); err != nil {
				return fmt.Errorf("task %s dependencies: %w", id, err)
			}
		}
	}

	switch {
	case previous != nil:
		_, err := st.SelectProject(previous.ID)
		return err
	case first != "":
		_, err := st.SelectProject(first)
		return err
	}
	return nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	return s, e, nil
}
