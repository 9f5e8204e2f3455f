package update

import (
	"errors"
	"fmt"
	"time"

	"github.com/pkalyta/taskquest/internal/core"
	"github.com/pkalyta/taskquest/internal/model"
)

// TaskForm is the raw string state of the add/edit form. The presentation
// layer owns field validation; the ledger trusts what it is handed.
type TaskForm struct {
	Title     string
	Date      string
	StartTime string
	EndTime   string
	Priority  string
}

// Validate checks required fields and the start-before-end invariant, and
// converts the form into ledger input. An empty priority defaults to medium.
func (f TaskForm) Validate() (core.TaskInput, error) {
	if f.Title == "" {
		return core.TaskInput{}, errors.New("title is required")
	}
	if _, err := time.Parse(model.DateLayout, f.Date); err != nil {
		return core.TaskInput{}, fmt.Errorf("date must be %s", model.DateLayout)
	}
	start, err := time.Parse(model.TimeLayout, f.StartTime)
	if err != nil {
		return core.TaskInput{}, errors.New("start time must be HH:MM")
	}
	end, err := time.Parse(model.TimeLayout, f.EndTime)
	if err != nil {
		return core.TaskInput{}, errors.New("end time must be HH:MM")
	}
	if !start.Before(end) {
		return core.TaskInput{}, errors.New("start time must be before end time")
	}

	priority := model.Priority(f.Priority)
	if f.Priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return core.TaskInput{}, errors.New("priority must be high, medium or low")
	}
	return core.TaskInput{
		Title:     f.Title,
		Priority:  priority,
		Date:      f.Date,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
	}, nil
}
