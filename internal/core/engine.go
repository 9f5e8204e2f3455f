// Package core is the state engine: it owns the in-memory document, enforces
// the invariants between users, tasks and badges, and runs the mutation
// pipeline (mutate, persist, recompute, reschedule, notify). All operations
// are synchronous; the single UI goroutine is the only writer.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/pkalyta/taskquest/internal/logger"
	"github.com/pkalyta/taskquest/internal/model"
	"github.com/pkalyta/taskquest/internal/stats"
	"github.com/pkalyta/taskquest/internal/storage"
)

var (
	// ErrValidation marks malformed or missing input; the operation aborts
	// with no state change.
	ErrValidation = errors.New("core: validation failed")
	// ErrConflict marks a duplicate username on registration.
	ErrConflict = errors.New("core: username is already taken")
	// ErrAuth is deliberately the same for unknown users and wrong passwords.
	ErrAuth = errors.New("core: invalid username or password")
	// ErrNoSession marks an operation that needs an authenticated user.
	ErrNoSession = errors.New("core: no active session")
)

type Clock func() time.Time

// Events are the discrete signals the presentation layer consumes. Any field
// may be nil.
type Events struct {
	TaskCompleted     func(model.Task)
	BadgeEarned       func(model.Badge)
	DailyGoalAchieved func(day string)
}

func (ev Events) emitTaskCompleted(t model.Task) {
	if ev.TaskCompleted != nil {
		ev.TaskCompleted(t)
	}
}

func (ev Events) emitBadgeEarned(b model.Badge) {
	if ev.BadgeEarned != nil {
		ev.BadgeEarned(b)
	}
}

func (ev Events) emitDailyGoalAchieved(day string) {
	if ev.DailyGoalAchieved != nil {
		ev.DailyGoalAchieved(day)
	}
}

// ReminderScheduler is the narrow scheduler surface the engine drives.
type ReminderScheduler interface {
	ScheduleTask(task model.Task, now time.Time) (int, error)
	CancelTask(taskID string)
	ScheduleAll(tasks []model.Task, now time.Time) error
}

type Engine struct {
	store     storage.Store
	reminders ReminderScheduler
	log       *logger.Logger
	events    Events
	now       Clock
	doc       model.Document
}

// New wires the engine with explicit dependencies. Call Init before use.
func New(store storage.Store, reminders ReminderScheduler, log *logger.Logger, events Events) *Engine {
	return &Engine{
		store:     store,
		reminders: reminders,
		log:       log,
		events:    events,
		now:       time.Now,
		doc:       model.EmptyDocument(),
	}
}

// Init loads the persisted document. A corrupt payload has already been
// replaced by the canonical empty document at the store level.
func (e *Engine) Init(ctx context.Context) error {
	doc, err := e.store.Load(ctx)
	if err != nil {
		return err
	}
	doc.Normalize()
	e.doc = doc
	return nil
}

// persist writes the whole document. A rejected write is logged and
// absorbed: the in-memory state stays authoritative and the next mutation
// retries the save.
func (e *Engine) persist(ctx context.Context) {
	if err := e.store.Save(ctx, e.doc); err != nil {
		e.log.Warn("document save failed, keeping in-memory state", "error", err)
	}
}

func (e *Engine) Settings() model.Settings {
	return e.doc.Settings
}

func (e *Engine) SetTheme(ctx context.Context, theme string) {
	e.doc.Settings.Theme = theme
	e.persist(ctx)
}

func (e *Engine) SetNotifications(ctx context.Context, enabled bool) {
	e.doc.Settings.Notifications = enabled
	e.persist(ctx)
}

// Stats derives the aggregate counters for the active user's tasks.
func (e *Engine) Stats() stats.Stats {
	return stats.Compute(e.sessionTasks(), e.now())
}

// RescheduleAllReminders rebuilds every timer from persisted task state.
// Called on startup and on regaining focus; reminders are ephemeral and a
// restart loses them, so the task list is the source of truth.
func (e *Engine) RescheduleAllReminders() {
	if err := e.reminders.ScheduleAll(e.sessionTasks(), e.now()); err != nil {
		e.log.Warn("reminder rebuild failed", "error", err)
	}
}

func (e *Engine) sessionTasks() []model.Task {
	if e.doc.CurrentUser == "" {
		return nil
	}
	out := make([]model.Task, 0, len(e.doc.Tasks))
	for _, t := range e.doc.Tasks {
		if t.Owner == e.doc.CurrentUser {
			out = append(out, t)
		}
	}
	return out
}

func (e *Engine) sessionBadges() []model.Badge {
	if e.doc.CurrentUser == "" {
		return nil
	}
	out := make([]model.Badge, 0, len(e.doc.Badges))
	for _, b := range e.doc.Badges {
		if b.Owner == e.doc.CurrentUser {
			out = append(out, b)
		}
	}
	return out
}
