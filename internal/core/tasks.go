package core

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkalyta/taskquest/internal/model"
)

// TaskInput carries the fields the presentation layer collects for a new
// task. Field-level validation (non-empty title, startTime < endTime) is the
// caller's responsibility before invoking the ledger; the ledger only stamps
// identity and ownership.
type TaskInput struct {
	Title       string
	Description string
	Priority    model.Priority
	Date        string
	StartTime   string
	EndTime     string
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	Date        *string
	StartTime   *string
	EndTime     *string
}

// AddTask appends a task for the active user, persists, re-evaluates badges
// and schedules its reminders.
func (e *Engine) AddTask(ctx context.Context, in TaskInput) (model.Task, error) {
	if e.doc.CurrentUser == "" {
		return model.Task{}, ErrNoSession
	}
	task := model.Task{
		ID:          uuid.NewString(),
		Owner:       e.doc.CurrentUser,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Date:        in.Date,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		CreatedAt:   e.now(),
	}
	e.doc.Tasks = append(e.doc.Tasks, task)
	e.persist(ctx)
	e.checkAllBadges(ctx)
	if _, err := e.reminders.ScheduleTask(task, e.now()); err != nil {
		e.log.Warn("reminder scheduling failed", "task", task.ID, "error", err)
	}
	return task, nil
}

// ListTasks returns the active user's tasks in insertion order.
func (e *Engine) ListTasks() []model.Task {
	return e.sessionTasks()
}

// ListBadges returns the active user's badges in grant order.
func (e *Engine) ListBadges() []model.Badge {
	return e.sessionBadges()
}

// UpdateTask merges the patch into the task with the given id. Lookup is by
// id only, without an ownership re-check: a single device has a single
// active session, so cross-user mutation is not reachable from the UI.
// Existing reminders are always revoked and rescheduled from the new times.
func (e *Engine) UpdateTask(ctx context.Context, id string, patch TaskPatch) (model.Task, bool) {
	idx := e.taskIndex(id)
	if idx < 0 {
		return model.Task{}, false
	}
	task := &e.doc.Tasks[idx]
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Date != nil {
		task.Date = *patch.Date
	}
	if patch.StartTime != nil {
		task.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		task.EndTime = *patch.EndTime
	}
	e.persist(ctx)
	e.checkAllBadges(ctx)

	e.reminders.CancelTask(task.ID)
	if !task.Completed {
		if _, err := e.reminders.ScheduleTask(*task, e.now()); err != nil {
			e.log.Warn("reminder rescheduling failed", "task", task.ID, "error", err)
		}
	}
	return *task, true
}

// CompleteTask marks the task done and runs the completion pipeline:
// persist, revoke reminders, daily-goal check, badge re-evaluation.
// Completing an already-completed task is a no-op and leaves CompletedAt at
// the first completion instant.
func (e *Engine) CompleteTask(ctx context.Context, id string) (model.Task, bool) {
	idx := e.taskIndex(id)
	if idx < 0 {
		return model.Task{}, false
	}
	task := &e.doc.Tasks[idx]
	if task.Completed {
		return *task, true
	}
	completedAt := e.now()
	task.Completed = true
	task.CompletedAt = &completedAt
	e.persist(ctx)

	e.reminders.CancelTask(task.ID)
	e.events.emitTaskCompleted(*task)
	e.checkDailyCompletion(ctx)
	e.checkAllBadges(ctx)
	return *task, true
}

// DeleteTask removes the task with the given id and revokes its reminders.
// Like UpdateTask, lookup is by id only.
func (e *Engine) DeleteTask(ctx context.Context, id string) bool {
	idx := e.taskIndex(id)
	if idx < 0 {
		return false
	}
	e.doc.Tasks = append(e.doc.Tasks[:idx], e.doc.Tasks[idx+1:]...)
	e.persist(ctx)
	e.reminders.CancelTask(id)
	return true
}

func (e *Engine) taskIndex(id string) int {
	for i, t := range e.doc.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
