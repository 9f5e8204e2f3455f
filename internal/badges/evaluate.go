package badges

import (
	"time"

	"github.com/pkalyta/taskquest/internal/model"
	"github.com/pkalyta/taskquest/internal/stats"
)

// Due returns the catalog definitions whose condition holds over (s, tasks)
// and that the user does not hold yet. Granting is monotonic: owned kinds are
// filtered out first, so re-evaluation never duplicates a badge.
func Due(owned []model.Badge, s stats.Stats, tasks []model.Task, now time.Time) []Definition {
	held := make(map[model.BadgeKind]bool, len(owned))
	for _, b := range owned {
		held[b.Kind] = true
	}
	var out []Definition
	for _, def := range catalog {
		if held[def.Kind] {
			continue
		}
		if conditionMet(def.Kind, s, tasks, now) {
			out = append(out, def)
		}
	}
	return out
}

// DailyCompletionDue reports whether today's clean-sweep badge should be
// granted: at least one task is dated today, all of them are completed, and
// no daily badge has been earned today yet.
func DailyCompletionDue(owned []model.Badge, s stats.Stats, now time.Time) bool {
	if s.Today.Total == 0 || s.Today.Pending != 0 {
		return false
	}
	for _, b := range owned {
		if b.Kind == model.BadgeDailyCompletion && b.EarnedOn(now) {
			return false
		}
	}
	return true
}

func conditionMet(kind model.BadgeKind, s stats.Stats, tasks []model.Task, now time.Time) bool {
	switch kind {
	case model.BadgeFirstTask:
		return s.Total >= 1
	case model.BadgeTaskCollector:
		return s.Total >= collectorThreshold
	case model.BadgeFirstComplete:
		return s.Completed >= 1
	case model.BadgeProductive:
		return s.Completed >= productiveThreshold
	case model.BadgePlanner:
		return plannedAheadCount(tasks, now) >= plannerThreshold
	case model.BadgeEarlyBird:
		return completedBeforeHour(tasks, earlyBirdHour, now.Location())
	case model.BadgeNightOwl:
		return completedAtOrAfterHour(tasks, nightOwlHour, now.Location())
	case model.BadgeWeekendWarrior:
		return weekendPairCompleted(tasks, now.Location())
	case model.BadgeStreakThree:
		return hasCompletionStreak(tasks, now, streakShortDays)
	case model.BadgeStreakWeek:
		return hasCompletionStreak(tasks, now, streakLongDays)
	default:
		return false
	}
}

// hasCompletionStreak walks backward from today for up to a year. A day with
// no tasks is neutral: it neither breaks the streak nor counts toward it. A
// day with any incomplete task ends the scan.
func hasCompletionStreak(tasks []model.Task, now time.Time, requiredDays int) bool {
	if requiredDays <= 0 {
		return false
	}
	streak := 0
	for i := 0; i < 365; i++ {
		day := now.AddDate(0, 0, -i).Format(model.DateLayout)
		total, completed := 0, 0
		for _, t := range tasks {
			if t.Date != day {
				continue
			}
			total++
			if t.Completed {
				completed++
			}
		}
		if total == 0 {
			continue
		}
		if completed < total {
			return false
		}
		streak++
		if streak >= requiredDays {
			return true
		}
	}
	return false
}

// plannedAheadCount counts tasks dated strictly after today. The ISO date
// encoding makes the lexicographic comparison a calendar comparison.
func plannedAheadCount(tasks []model.Task, now time.Time) int {
	today := now.Format(model.DateLayout)
	count := 0
	for _, t := range tasks {
		if t.Date > today {
			count++
		}
	}
	return count
}

func completedBeforeHour(tasks []model.Task, hour int, loc *time.Location) bool {
	for _, t := range tasks {
		if t.CompletedAt != nil && t.CompletedAt.In(loc).Hour() < hour {
			return true
		}
	}
	return false
}

func completedAtOrAfterHour(tasks []model.Task, hour int, loc *time.Location) bool {
	for _, t := range tasks {
		if t.CompletedAt != nil && t.CompletedAt.In(loc).Hour() >= hour {
			return true
		}
	}
	return false
}

// weekendPairCompleted requires completed tasks dated on a Saturday and on a
// Sunday; the two days need not belong to the same weekend.
func weekendPairCompleted(tasks []model.Task, loc *time.Location) bool {
	var saturday, sunday bool
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		day, err := t.Day(loc)
		if err != nil {
			continue
		}
		switch day.Weekday() {
		case time.Saturday:
			saturday = true
		case time.Sunday:
			sunday = true
		}
	}
	return saturday && sunday
}
