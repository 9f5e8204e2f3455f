package scheduler

import (
	"time"

	"github.com/pkalyta/taskquest/internal/model"
)

// Kind is one independently schedulable reminder offset from a task's start
// instant.
type Kind string

const (
	KindOneHour    Kind = "one_hour"
	KindFiveMinute Kind = "five_minute"
	KindAtStart    Kind = "at_start"
)

// kinds in firing order for a single task.
var kinds = []Kind{KindOneHour, KindFiveMinute, KindAtStart}

func (k Kind) Offset() time.Duration {
	switch k {
	case KindOneHour:
		return time.Hour
	case KindFiveMinute:
		return 5 * time.Minute
	default:
		return 0
	}
}

// Reminder is one pending fire for one (task, kind) pair. Reminders are
// ephemeral: they are recomputed from persisted task state on every process
// start, never stored.
type Reminder struct {
	TaskID    string
	TaskTitle string
	Kind      Kind
	FireAt    time.Time
}

// Tag is the dedupe key for delivered notifications.
func (r Reminder) Tag() string {
	return r.TaskID + "/" + string(r.Kind)
}

// Plan computes the reminders for one task relative to now, in the location
// of now. A completed task plans nothing. A kind whose target instant is
// already in the past is silently skipped, so a task starting within the
// hour gets fewer than three reminders and a past task gets none. A task
// whose date or start time does not parse plans nothing.
func Plan(task model.Task, now time.Time) []Reminder {
	if task.Completed {
		return nil
	}
	start, err := task.StartInstant(now.Location())
	if err != nil {
		return nil
	}
	out := make([]Reminder, 0, len(kinds))
	for _, kind := range kinds {
		fireAt := start.Add(-kind.Offset())
		if !fireAt.After(now) {
			continue
		}
		out = append(out, Reminder{
			TaskID:    task.ID,
			TaskTitle: task.Title,
			Kind:      kind,
			FireAt:    fireAt,
		})
	}
	return out
}
