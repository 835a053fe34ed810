package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/ganttr/internal/store"
)

// ToCSV writes one row per task of p, in insertion order.
func ToCSV(p *store.Project, users []store.User, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Project", "Title", "Start", "End", "Days", "Progress", "Depends On", "Assignees", "Color"}); err != nil {
		return err
	}
	if p == nil {
		return w.Error()
	}

	for _, t := range p.Tasks {
		row := []string{
			t.ID,
			p.Name,
			t.Title,
			t.Start.Format(time.DateOnly),
			t.End.Format(time.DateOnly),
			strconv.Itoa(taskDays(t)),
			strconv.Itoa(t.Progress),
			strings.Join(dependencyTitles(p, t), "; "),
			strings.Join(assigneeNames(users, t), "; "),
			t.Color,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// taskDays is the inclusive number of calendar days the task covers.
func taskDays(t store.Task) int {
	return int(t.End.Sub(t.Start).Hours()/24) + 1
}

// dependencyTitles resolves dependency ids to titles. Ids that no longer
// match a task are skipped.
func dependencyTitles(p *store.Project, t store.Task) []string {
	var titles []string
	for _, id := range t.DependsOn {
		if dep := p.TaskByID(id); dep != nil {
			titles = append(titles, dep.Title)
		}
	}
	return titles
}

func assigneeNames(users []store.User, t store.Task) []string {
	byID := make(map[string]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.Name
	}
	var names []string
	for _, id := range t.Assignees {
		if n, ok := byID[id]; ok {
			names = append(names, n)
		}
	}
	return names
}
