package core

import (
	"context"
	"testing"
	"time"

	"github.com/pkalyta/taskquest/internal/model"
)

func TestFirstTaskBadgeGrantedOnAdd(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	f.addTask(t, "Only task", day(1))

	kinds := f.log.earnedKinds()
	if kinds[model.BadgeFirstTask] != 1 {
		t.Fatalf("first-task badge granted %d times", kinds[model.BadgeFirstTask])
	}
	badges := f.engine.ListBadges()
	if len(badges) != 1 || badges[0].Kind != model.BadgeFirstTask {
		t.Fatalf("badges = %+v", badges)
	}
	if badges[0].Title == "" || badges[0].Icon == "" {
		t.Fatalf("badge missing catalog metadata: %+v", badges[0])
	}
}

func TestBadgeGrantingIsMonotonic(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	f.addTask(t, "one", day(1))
	f.addTask(t, "two", day(1))
	f.addTask(t, "three", day(1))

	kinds := f.log.earnedKinds()
	if kinds[model.BadgeFirstTask] != 1 {
		t.Fatalf("first-task badge duplicated: %d", kinds[model.BadgeFirstTask])
	}
}

func TestDailyCompletionGrantedOncePerDay(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	ctx := context.Background()

	a := f.addTask(t, "a", day(0))
	b := f.addTask(t, "b", day(0))
	c := f.addTask(t, "c", day(0))

	f.engine.CompleteTask(ctx, a.ID)
	f.engine.CompleteTask(ctx, b.ID)
	if f.log.earnedKinds()[model.BadgeDailyCompletion] != 0 {
		t.Fatal("daily badge granted before all of today's tasks were done")
	}
	f.engine.CompleteTask(ctx, c.ID)

	kinds := f.log.earnedKinds()
	if kinds[model.BadgeDailyCompletion] != 1 {
		t.Fatalf("daily badge granted %d times, want 1", kinds[model.BadgeDailyCompletion])
	}
	if len(f.log.dailyDays) != 1 || f.log.dailyDays[0] != day(0) {
		t.Fatalf("daily-goal event = %v", f.log.dailyDays)
	}
}

func TestDailyCompletionRepeatsAcrossDays(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	ctx := context.Background()

	today := f.addTask(t, "today", day(0))
	tomorrow := f.addTask(t, "tomorrow", day(1))

	f.engine.CompleteTask(ctx, today.ID)
	if f.log.earnedKinds()[model.BadgeDailyCompletion] != 1 {
		t.Fatal("expected today's daily badge")
	}

	*f.clock = f.clock.AddDate(0, 0, 1)
	f.engine.CompleteTask(ctx, tomorrow.ID)

	kinds := f.log.earnedKinds()
	if kinds[model.BadgeDailyCompletion] != 2 {
		t.Fatalf("daily badge count across two days = %d, want 2", kinds[model.BadgeDailyCompletion])
	}
	if len(f.log.dailyDays) != 2 || f.log.dailyDays[1] != day(1) {
		t.Fatalf("daily-goal events = %v", f.log.dailyDays)
	}
}

func TestCompletionBadgePipeline(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	ctx := context.Background()

	task := f.addTask(t, "solo", day(0))
	f.engine.CompleteTask(ctx, task.ID)

	kinds := f.log.earnedKinds()
	if kinds[model.BadgeFirstComplete] != 1 {
		t.Fatal("expected first-complete badge after completion")
	}
	if len(f.log.completed) != 1 || f.log.completed[0].ID != task.ID {
		t.Fatalf("task-completed events = %+v", f.log.completed)
	}
}

func TestStreakBadgeGrantedThroughPipeline(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	ctx := context.Background()

	// Complete one task per day for three consecutive days.
	for offset := -2; offset <= 0; offset++ {
		*f.clock = baseTime.AddDate(0, 0, offset)
		task := f.addTask(t, "daily "+day(offset), day(offset))
		f.engine.CompleteTask(ctx, task.ID)
	}

	kinds := f.log.earnedKinds()
	if kinds[model.BadgeStreakThree] != 1 {
		t.Fatalf("streak badge granted %d times, want 1", kinds[model.BadgeStreakThree])
	}
	if kinds[model.BadgeStreakWeek] != 0 {
		t.Fatal("7-day streak must not be granted after 3 days")
	}
}

func TestBadgesAreOwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerAda(t)
	f.addTask(t, "ada's", day(1))

	f.engine.Logout(ctx)
	if _, err := f.engine.Register(ctx, "grace", "hopper99", "Grace"); err != nil {
		t.Fatalf("register grace: %v", err)
	}
	if got := f.engine.ListBadges(); len(got) != 0 {
		t.Fatalf("grace sees ada's badges: %+v", got)
	}
	f.addTask(t, "grace's", day(1))
	got := f.engine.ListBadges()
	if len(got) != 1 || got[0].Owner != "grace" {
		t.Fatalf("grace's badges = %+v", got)
	}
}

func TestBadgeEarnedAtUsesClock(t *testing.T) {
	f := newFixture(t)
	f.registerAda(t)
	later := baseTime.Add(3 * time.Hour)
	*f.clock = later
	f.addTask(t, "late add", day(1))

	badges := f.engine.ListBadges()
	if len(badges) != 1 || !badges[0].EarnedAt.Equal(later) {
		t.Fatalf("earned_at = %+v", badges)
	}
}
