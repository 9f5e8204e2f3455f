package core

import (
	"context"
	"testing"
	"time"

	"github.com/pkalyta/taskquest/internal/logger"
	"github.com/pkalyta/taskquest/internal/model"
	"github.com/pkalyta/taskquest/internal/storage"
)

var baseTime = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC) // a Monday

type fakeScheduler struct {
	pending   map[string]int
	cancelled []string
	rebuilds  int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{pending: make(map[string]int)}
}

func (f *fakeScheduler) ScheduleTask(task model.Task, now time.Time) (int, error) {
	f.pending[task.ID] = 3
	return 3, nil
}

func (f *fakeScheduler) CancelTask(taskID string) {
	f.cancelled = append(f.cancelled, taskID)
	delete(f.pending, taskID)
}

func (f *fakeScheduler) ScheduleAll(tasks []model.Task, now time.Time) error {
	f.rebuilds++
	f.pending = make(map[string]int)
	for _, t := range tasks {
		if !t.Completed {
			f.pending[t.ID] = 3
		}
	}
	return nil
}

type eventLog struct {
	completed []model.Task
	earned    []model.Badge
	dailyDays []string
}

func (l *eventLog) events() Events {
	return Events{
		TaskCompleted:     func(t model.Task) { l.completed = append(l.completed, t) },
		BadgeEarned:       func(b model.Badge) { l.earned = append(l.earned, b) },
		DailyGoalAchieved: func(day string) { l.dailyDays = append(l.dailyDays, day) },
	}
}

func (l *eventLog) earnedKinds() map[model.BadgeKind]int {
	out := make(map[model.BadgeKind]int)
	for _, b := range l.earned {
		out[b.Kind]++
	}
	return out
}

type fixture struct {
	engine *Engine
	store  *storage.MemoryStore
	sched  *fakeScheduler
	log    *eventLog
	clock  *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMemoryStore(logger.Discard())
	sched := newFakeScheduler()
	evlog := &eventLog{}
	engine := New(store, sched, logger.Discard(), evlog.events())

	clock := baseTime
	engine.now = func() time.Time { return clock }
	if err := engine.Init(context.Background()); err != nil {
		t.Fatalf("init engine: %v", err)
	}
	return &fixture{engine: engine, store: store, sched: sched, log: evlog, clock: &clock}
}

func (f *fixture) registerAda(t *testing.T) {
	t.Helper()
	if _, err := f.engine.Register(context.Background(), "ada", "hunter22", "Ada"); err != nil {
		t.Fatalf("register: %v", err)
	}
}

func (f *fixture) addTask(t *testing.T, title, date string) model.Task {
	t.Helper()
	task, err := f.engine.AddTask(context.Background(), TaskInput{
		Title:     title,
		Priority:  model.PriorityMedium,
		Date:      date,
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	if err != nil {
		t.Fatalf("add task %q: %v", title, err)
	}
	return task
}

func day(offset int) string {
	return baseTime.AddDate(0, 0, offset).Format(model.DateLayout)
}
