package core

import (
	"context"

	"github.com/pkalyta/taskquest/internal/badges"
	"github.com/pkalyta/taskquest/internal/model"
	"github.com/pkalyta/taskquest/internal/stats"
)

// checkAllBadges grants every catalog badge whose condition became true for
// the active user. Granting is monotonic: kinds already held are skipped at
// evaluation, so re-running never duplicates.
func (e *Engine) checkAllBadges(ctx context.Context) {
	if e.doc.CurrentUser == "" {
		return
	}
	tasks := e.sessionTasks()
	owned := e.sessionBadges()
	s := stats.Compute(tasks, e.now())

	due := badges.Due(owned, s, tasks, e.now())
	if len(due) == 0 {
		return
	}
	granted := make([]model.Badge, 0, len(due))
	for _, def := range due {
		granted = append(granted, e.grant(def))
	}
	e.persist(ctx)
	for _, b := range granted {
		e.events.emitBadgeEarned(b)
	}
}

// checkDailyCompletion runs after any completion: when every task dated
// today is done (and there is at least one), the repeatable daily badge is
// granted, at most once per calendar day.
func (e *Engine) checkDailyCompletion(ctx context.Context) {
	if e.doc.CurrentUser == "" {
		return
	}
	now := e.now()
	s := stats.Compute(e.sessionTasks(), now)
	if !badges.DailyCompletionDue(e.sessionBadges(), s, now) {
		return
	}
	b := e.grant(badges.DailyCompletion)
	e.persist(ctx)
	e.events.emitDailyGoalAchieved(now.Format(model.DateLayout))
	e.events.emitBadgeEarned(b)
}

func (e *Engine) grant(def badges.Definition) model.Badge {
	b := model.Badge{
		Kind:        def.Kind,
		Owner:       e.doc.CurrentUser,
		Title:       def.Title,
		Description: def.Description,
		Icon:        def.Icon,
		Category:    def.Category,
		EarnedAt:    e.now(),
	}
	e.doc.Badges = append(e.doc.Badges, b)
	e.log.Info("badge earned", "username", b.Owner, "badge", string(b.Kind))
	return b
}
