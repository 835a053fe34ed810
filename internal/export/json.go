package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/ganttr/internal/store"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	ProjectID  string     `json:"project_id"`
	Project    string     `json:"project"`
	Start      string     `json:"start"`
	End        string     `json:"end"`
	Count      int        `json:"count"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonTask struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Days        int      `json:"days"`
	Progress    int      `json:"progress"`
	DependsOn   []string `json:"depends_on,omitempty"`
	Assignees   []string `json:"assignees,omitempty"`
	Color       string   `json:"color"`
}

func ToJSON(p *store.Project, users []store.User, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if p != nil {
		export.ProjectID = p.ID
		export.Project = p.Name
		export.Start = p.Start.Format(time.DateOnly)
		export.End = p.End.Format(time.DateOnly)
		export.Count = len(p.Tasks)

		for _, t := range p.Tasks {
			export.Tasks = append(export.Tasks, jsonTask{
				ID:          t.ID,
				Title:       t.Title,
				Description: t.Description,
				Start:       t.Start.Format(time.DateOnly),
				End:         t.End.Format(time.DateOnly),
				Days:        taskDays(t),
				Progress:    t.Progress,
				DependsOn:   dependencyTitles(p, t),
				Assignees:   assigneeNames(users, t),
				Color:       t.Color,
			})
		}
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
