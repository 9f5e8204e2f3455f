// Package stats derives aggregate counters from a task list. Everything here
// is a pure function of its inputs; "today" is the calendar day of the
// caller-supplied reference time.
package stats

import (
	"time"

	"github.com/pkalyta/taskquest/internal/model"
)

type DayStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

type PriorityStats struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type Stats struct {
	Total      int           `json:"total"`
	Completed  int           `json:"completed"`
	Pending    int           `json:"pending"`
	Today      DayStats      `json:"today"`
	ByPriority PriorityStats `json:"byPriority"`
}

// Compute aggregates the given tasks. Today is matched against each task's
// Date field, not its timestamps. Priority counts cover all tasks regardless
// of completion state.
func Compute(tasks []model.Task, now time.Time) Stats {
	var s Stats
	for _, t := range tasks {
		s.Total++
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
		}
		if t.OnDay(now) {
			s.Today.Total++
			if t.Completed {
				s.Today.Completed++
			} else {
				s.Today.Pending++
			}
		}
		switch t.Priority {
		case model.PriorityHigh:
			s.ByPriority.High++
		case model.PriorityMedium:
			s.ByPriority.Medium++
		case model.PriorityLow:
			s.ByPriority.Low++
		}
	}
	return s
}
