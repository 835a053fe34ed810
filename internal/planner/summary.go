package planner

import (
	"math"

	"github.com/sadopc/ganttr/internal/store"
)

type Summary struct {
	Total      int
	Completed  int // progress 100
	InProgress int // progress 1..99
	NotStarted int // progress 0
	Overall    int // mean progress, rounded
	Days       int // project duration in days
}

func Summarize(p *store.Project) Summary {
	var s Summary
	if p == nil {
		return s
	}
	s.Days = int(math.Ceil(p.End.Sub(p.Start).Hours() / 24))
	s.Total = len(p.Tasks)

	sum := 0
	for _, t := range p.Tasks {
		sum += t.Progress
		switch {
		case t.Progress >= 100:
			s.Completed++
		case t.Progress > 0:
			s.InProgress++
		default:
			s.NotStarted++
		}
	}
	if s.Total > 0 {
		s.Overall = int(math.Round(float64(sum) / float64(s.Total)))
	}
	return s
}

// Names maps user ids to display names, silently dropping ids with no user.
func Names(users []store.User, ids []string) []string {
	byID := make(map[string]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.Name
	}
	var names []string
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
