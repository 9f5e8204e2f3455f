package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidPriority = errors.New("model: invalid task priority")

const (
	// DateLayout is the calendar-day encoding used for Task.Date.
	DateLayout = "2006-01-02"
	// TimeLayout is the wall-clock encoding used for Task.StartTime and Task.EndTime.
	TimeLayout = "15:04"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Task is a single scheduled item owned by one user. Date is a calendar day,
// StartTime and EndTime are wall-clock times within that day.
type Task struct {
	ID          string     `json:"id"`
	Owner       string     `json:"owner"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Date        string     `json:"date"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Owner) == "" {
		return errors.New("model: task owner is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return fmt.Errorf("model: task date: %w", err)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.Completed && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task is completed")
	}
	if !t.Completed && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task is not completed")
	}
	return nil
}

// Day returns the task's calendar day at midnight in loc.
func (t Task) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, t.Date, loc)
}

// StartInstant combines Date and StartTime into one instant in loc.
func (t Task) StartInstant(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, t.Date+" "+t.StartTime, loc)
}

// OnDay reports whether the task is dated the same calendar day as ref.
func (t Task) OnDay(ref time.Time) bool {
	return t.Date == ref.Format(DateLayout)
}
