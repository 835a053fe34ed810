package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateProject inserts p after every existing project. An empty ID is
// replaced by a fresh UUID. Tasks on p are ignored; add them with CreateTask.
func (s *Store) CreateProject(p Project) (*Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO projects (id, name, description, start_date, end_date, position, created_at)
		 VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM projects), ?)`,
		p.ID, p.Name, p.Description, p.Start.Format(dateLayout), p.End.Format(dateLayout), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return s.GetProject(p.ID)
}

// GetProject returns the project with its tasks in row order.
func (s *Store) GetProject(id string) (*Project, error) {
	p := &Project{}
	var start, end, createdAt string
	err := s.db.QueryRow(
		`SELECT id, name, description, start_date, end_date, created_at FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &start, &end, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, notFound(err))
	}
	p.Start, _ = time.Parse(dateLayout, start)
	p.End, _ = time.Parse(dateLayout, end)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	p.Tasks, err = s.ListTasks(id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns every project, tasks included, in creation order.
func (s *Store) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(`SELECT id FROM projects ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetProject(id)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, nil
}
