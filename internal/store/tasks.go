package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const taskColumns = `id, project_id, title, description, start_date, end_date, progress, color, position`

// CreateTask appends t to the end of its project's task list.
func (s *Store) CreateTask(t Task) (*Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO tasks (id, project_id, title, description, start_date, end_date, progress, color, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks WHERE project_id = ?))`,
		t.ID, t.ProjectID, t.Title, t.Description, t.Start.Format(dateLayout), t.End.Format(dateLayout),
		t.Progress, t.Color, t.ProjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	if err := replaceLinks(tx, t.ID, t.DependsOn, t.Assignees); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit task: %w", err)
	}
	return s.GetTask(t.ID)
}

func (s *Store) GetTask(id string) (*Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, notFound(err))
	}
	if err := s.loadLinks(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns a project's tasks in insertion order.
func (s *Store) ListTasks(projectID string) ([]Task, error) {
	rows, err := s.db.Query(`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		if err := s.loadLinks(&tasks[i]); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// UpdateTask overwrites every editable field of the stored task with t.
func (s *Store) UpdateTask(t Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE tasks SET title = ?, description = ?, start_date = ?, end_date = ?, progress = ?, color = ? WHERE id = ?`,
		t.Title, t.Description, t.Start.Format(dateLayout), t.End.Format(dateLayout), t.Progress, t.Color, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update task %s: %w", t.ID, ErrNotFound)
	}
	if err := replaceLinks(tx, t.ID, t.DependsOn, t.Assignees); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteTask removes a task and its own links. Other tasks that depend on it
// keep the dangling reference.
func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete task %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (*Task, error) {
	t := &Task{}
	var start, end string
	if err := r.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &start, &end, &t.Progress, &t.Color, &t.Position); err != nil {
		return nil, err
	}
	t.Start, _ = time.Parse(dateLayout, start)
	t.End, _ = time.Parse(dateLayout, end)
	return t, nil
}

func (s *Store) loadLinks(t *Task) error {
	var err error
	t.DependsOn, err = s.linkIDs(`SELECT depends_on FROM task_dependencies WHERE task_id = ? ORDER BY position`, t.ID)
	if err != nil {
		return fmt.Errorf("load dependencies of %s: %w", t.ID, err)
	}
	t.Assignees, err = s.linkIDs(`SELECT user_id FROM task_assignees WHERE task_id = ? ORDER BY position`, t.ID)
	if err != nil {
		return fmt.Errorf("load assignees of %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) linkIDs(query, taskID string) ([]string, error) {
	rows, err := s.db.Query(query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func replaceLinks(tx *sql.Tx, taskID string, deps, assignees []string) error {
	if _, err := tx.Exec(`DELETE FROM task_dependencies WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clear dependencies: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM task_assignees WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clear assignees: %w", err)
	}
	for i, dep := range dedupe(deps) {
		if _, err := tx.Exec(`INSERT INTO task_dependencies (task_id, depends_on, position) VALUES (?, ?, ?)`, taskID, dep, i); err != nil {
			return fmt.Errorf("insert dependency: %w", err)
		}
	}
	for i, uid := range dedupe(assignees) {
		if _, err := tx.Exec(`INSERT INTO task_assignees (task_id, user_id, position) VALUES (?, ?, ?)`, taskID, uid, i); err != nil {
			return fmt.Errorf("insert assignee: %w", err)
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
