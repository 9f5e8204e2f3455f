package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pkalyta/taskquest/internal/model"
)

func TestAddTaskStampsIdentityAndOwnership(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)

	task := f.addTask(t, "Write report", day(1))
	if task.ID == "" {
		t.Fatal("expected a generated id")
	}
	if task.Owner != "ada" {
		t.Fatalf("owner = %q", task.Owner)
	}
	if !task.CreatedAt.Equal(baseTime) || task.Completed || task.CompletedAt != nil {
		t.Fatalf("unexpected initial state: %+v", task)
	}

	listed := f.engine.ListTasks()
	if len(listed) != 1 || listed[0].ID != task.ID || listed[0].Title != "Write report" {
		t.Fatalf("list = %+v", listed)
	}
	if f.sched.pending[task.ID] == 0 {
		t.Fatal("expected reminders scheduled for the new task")
	}
}

func TestAddTaskRequiresSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.AddTask(context.Background(), TaskInput{Title: "orphan"})
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestListTasksIsSessionScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerAda(t)
	f.addTask(t, "ada's task", day(0))

	f.engine.Logout(ctx)
	if _, err := f.engine.Register(ctx, "grace", "hopper99", "Grace"); err != nil {
		t.Fatalf("register grace: %v", err)
	}
	f.addTask(t, "grace's task", day(0))

	listed := f.engine.ListTasks()
	if len(listed) != 1 || listed[0].Title != "grace's task" {
		t.Fatalf("expected only grace's task, got %+v", listed)
	}
}

func TestUpdateTaskMergesPartialFields(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	task := f.addTask(t, "Draft", day(1))

	title := "Draft v2"
	start := "14:00"
	updated, ok := f.engine.UpdateTask(context.Background(), task.ID, TaskPatch{
		Title:     &title,
		StartTime: &start,
	})
	if !ok {
		t.Fatal("expected update to find the task")
	}
	if updated.Title != "Draft v2" || updated.StartTime != "14:00" {
		t.Fatalf("merge failed: %+v", updated)
	}
	if updated.Date != task.Date || updated.EndTime != task.EndTime {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	// Editing revokes and reschedules.
	if len(f.sched.cancelled) == 0 || f.sched.cancelled[len(f.sched.cancelled)-1] != task.ID {
		t.Fatalf("expected cancel before reschedule, got %v", f.sched.cancelled)
	}
	if f.sched.pending[task.ID] == 0 {
		t.Fatal("expected fresh reminders after edit")
	}
}

func TestUpdateTaskUnknownID(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	if _, ok := f.engine.UpdateTask(context.Background(), "missing", TaskPatch{}); ok {
		t.Fatal("expected update of unknown id to report not found")
	}
}

func TestCompleteTaskIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	task := f.addTask(t, "Finish slides", day(0))

	first, ok := f.engine.CompleteTask(context.Background(), task.ID)
	if !ok || !first.Completed || first.CompletedAt == nil {
		t.Fatalf("first completion: %+v ok=%v", first, ok)
	}
	firstAt := *first.CompletedAt

	*f.clock = f.clock.Add(time.Hour)
	second, ok := f.engine.CompleteTask(context.Background(), task.ID)
	if !ok {
		t.Fatal("second completion should still find the task")
	}
	if !second.CompletedAt.Equal(firstAt) {
		t.Fatalf("completed_at moved from %v to %v", firstAt, *second.CompletedAt)
	}
	if len(f.log.completed) != 1 {
		t.Fatalf("task-completed fired %d times, want 1", len(f.log.completed))
	}
}

func TestCompleteTaskCancelsReminders(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	task := f.addTask(t, "Call dentist", day(1))

	if _, ok := f.engine.CompleteTask(context.Background(), task.ID); !ok {
		t.Fatal("complete failed")
	}
	if f.sched.pending[task.ID] != 0 {
		t.Fatal("expected reminders revoked on completion")
	}
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	task := f.addTask(t, "Obsolete", day(1))

	if !f.engine.DeleteTask(context.Background(), task.ID) {
		t.Fatal("expected delete to succeed")
	}
	if f.engine.DeleteTask(context.Background(), task.ID) {
		t.Fatal("second delete must report not found")
	}
	if len(f.engine.ListTasks()) != 0 {
		t.Fatal("task still listed after delete")
	}
	if f.sched.pending[task.ID] != 0 {
		t.Fatal("expected reminders revoked on delete")
	}
}

func TestMutationsSurviveReload(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	task := f.addTask(t, "Persist me", day(1))

	reloaded := New(f.store, f.sched, f.engine.log, Events{})
	reloaded.now = f.engine.now
	if err := reloaded.Init(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	listed := reloaded.ListTasks()
	if len(listed) != 1 || listed[0].ID != task.ID {
		t.Fatalf("task did not survive reload: %+v", listed)
	}
}

func TestSaveFailureKeepsInMemoryState(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)

	f.store.FailSave = true
	task := f.addTask(t, "Unsaved", day(1))
	if len(f.engine.ListTasks()) != 1 {
		t.Fatal("in-memory state must survive a rejected save")
	}

	// Next successful save flushes the retained state.
	f.store.FailSave = false
	if _, ok := f.engine.CompleteTask(context.Background(), task.ID); !ok {
		t.Fatal("complete failed")
	}
	reloaded := New(f.store, f.sched, f.engine.log, Events{})
	reloaded.now = f.engine.now
	if err := reloaded.Init(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.ListTasks(); len(got) != 1 || !got[0].Completed {
		t.Fatalf("retained state not flushed on next save: %+v", got)
	}
}

func TestRescheduleAllRebuildsFromLedger(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	open := f.addTask(t, "Open", day(1))
	done := f.addTask(t, "Done", day(1))
	if _, ok := f.engine.CompleteTask(context.Background(), done.ID); !ok {
		t.Fatal("complete failed")
	}

	f.engine.RescheduleAllReminders()
	if f.sched.rebuilds != 1 {
		t.Fatalf("rebuilds = %d", f.sched.rebuilds)
	}
	if f.sched.pending[open.ID] == 0 {
		t.Fatal("open task must be rescheduled")
	}
	if f.sched.pending[done.ID] != 0 {
		t.Fatal("completed task must not be rescheduled")
	}
}

func TestStatsAreSessionScoped(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	f.addTask(t, "Today", day(0))
	future := f.addTask(t, "Future", day(2))
	if _, ok := f.engine.CompleteTask(context.Background(), future.ID); !ok {
		t.Fatal("complete failed")
	}

	s := f.engine.Stats()
	if s.Total != 2 || s.Completed != 1 || s.Pending != 1 {
		t.Fatalf("stats = %+v", s)
	}
	if s.Today.Total != 1 || s.Today.Pending != 1 {
		t.Fatalf("today = %+v", s.Today)
	}
	if s.ByPriority.Medium != 2 {
		t.Fatalf("priority counts = %+v", s.ByPriority)
	}
}

func TestUpdateTaskPriorityPatch(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	task := f.addTask(t, "Tune priority", day(1))

	high := model.PriorityHigh
	updated, ok := f.engine.UpdateTask(context.Background(), task.ID, TaskPatch{Priority: &high})
	if !ok || updated.Priority != model.PriorityHigh {
		t.Fatalf("priority patch failed: %+v ok=%v", updated, ok)
	}
}
