package store

import "time"

type Project struct {
	ID          string
	Name        string
	Description string
	Start       time.Time
	End         time.Time
	Tasks       []Task // insertion order
	CreatedAt   time.Time
}

type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Progress    int
	DependsOn   []string // task ids, may dangle
	Assignees   []string // user ids, may dangle
	Color       string
	Position    int
}

type User struct {
	ID     string
	Name   string
	Avatar string // URI or empty
}

type Setting struct {
	Key   string
	Value string
}

// TaskByID returns the task with the given id, or nil.
func (p *Project) TaskByID(id string) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}
