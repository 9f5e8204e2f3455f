// Package badges holds the fixed achievement catalog and the pure predicates
// that decide when each badge becomes due. Granting and persistence belong to
// the core engine; nothing in this package mutates state.
package badges

import "github.com/pkalyta/taskquest/internal/model"

// Definition describes one catalog entry. The Kind tag selects the predicate
// branch in evaluate.go.
type Definition struct {
	Kind        model.BadgeKind
	Title       string
	Description string
	Icon        string
	Category    string
}

const (
	plannerThreshold    = 5
	collectorThreshold  = 10
	productiveThreshold = 10
	earlyBirdHour       = 8
	nightOwlHour        = 22
	streakShortDays     = 3
	streakLongDays      = 7
)

// catalog is the ten once-per-user definitions, in grant-evaluation order.
var catalog = []Definition{
	{model.BadgeFirstTask, "Getting Started", "Create your first task", "🌱", "milestone"},
	{model.BadgeTaskCollector, "Task Collector", "Create 10 tasks", "📚", "milestone"},
	{model.BadgeFirstComplete, "First Win", "Complete your first task", "✅", "milestone"},
	{model.BadgeProductive, "Productive", "Complete 10 tasks", "🏭", "milestone"},
	{model.BadgePlanner, "Planner", "Have 5 tasks scheduled for future days", "🗓️", "planning"},
	{model.BadgeEarlyBird, "Early Bird", "Complete a task before 8am", "🌅", "habit"},
	{model.BadgeNightOwl, "Night Owl", "Complete a task after 10pm", "🦉", "habit"},
	{model.BadgeWeekendWarrior, "Weekend Warrior", "Complete tasks on both Saturday and Sunday", "⚔️", "habit"},
	{model.BadgeStreakThree, "On a Roll", "Complete every planned task 3 days in a row", "🔥", "streak"},
	{model.BadgeStreakWeek, "Unstoppable", "Complete every planned task 7 days in a row", "🌟", "streak"},
}

// DailyCompletion is the one repeatable definition, earned at most once per
// calendar day and evaluated on its own path after each completion.
var DailyCompletion = Definition{
	Kind:        model.BadgeDailyCompletion,
	Title:       "Clean Sweep",
	Description: "Complete every task planned for the day",
	Icon:        "🧹",
	Category:    "daily",
}

// Catalog returns the ten once-per-user definitions.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup resolves a kind to its definition, including the daily one.
func Lookup(kind model.BadgeKind) (Definition, bool) {
	if kind == DailyCompletion.Kind {
		return DailyCompletion, true
	}
	for _, def := range catalog {
		if def.Kind == kind {
			return def, true
		}
	}
	return Definition{}, false
}
