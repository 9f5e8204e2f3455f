package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidBadgeKind = errors.New("model: invalid badge kind")

// BadgeKind identifies one entry of the fixed achievement catalog.
type BadgeKind string

const (
	BadgeFirstTask       BadgeKind = "first_task"
	BadgeTaskCollector   BadgeKind = "task_collector"
	BadgeFirstComplete   BadgeKind = "first_complete"
	BadgeProductive      BadgeKind = "productive"
	BadgePlanner         BadgeKind = "planner"
	BadgeEarlyBird       BadgeKind = "early_bird"
	BadgeNightOwl        BadgeKind = "night_owl"
	BadgeWeekendWarrior  BadgeKind = "weekend_warrior"
	BadgeStreakThree     BadgeKind = "streak_three"
	BadgeStreakWeek      BadgeKind = "streak_week"
	BadgeDailyCompletion BadgeKind = "daily_completion"
)

func (k BadgeKind) IsValid() bool {
	switch k {
	case BadgeFirstTask, BadgeTaskCollector, BadgeFirstComplete, BadgeProductive,
		BadgePlanner, BadgeEarlyBird, BadgeNightOwl, BadgeWeekendWarrior,
		BadgeStreakThree, BadgeStreakWeek, BadgeDailyCompletion:
		return true
	default:
		return false
	}
}

// Badge records that an achievement condition became true for a user. Badges
// are created by the achievement engine only and never mutated afterwards.
// At most one badge exists per (Kind, Owner), except BadgeDailyCompletion
// which allows one per (Owner, calendar day of EarnedAt).
type Badge struct {
	Kind        BadgeKind `json:"id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Category    string    `json:"category"`
	EarnedAt    time.Time `json:"earnedAt"`
}

func (b Badge) Validate() error {
	if !b.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidBadgeKind, b.Kind)
	}
	if strings.TrimSpace(b.Owner) == "" {
		return errors.New("model: badge owner is required")
	}
	if b.EarnedAt.IsZero() {
		return errors.New("model: badge earned_at is required")
	}
	return nil
}

// EarnedOn reports whether the badge was earned on the same calendar day as ref.
func (b Badge) EarnedOn(ref time.Time) bool {
	return b.EarnedAt.In(ref.Location()).Format(DateLayout) == ref.Format(DateLayout)
}
