// Package badges evaluates badge criteria against a user's habit history.
// Evaluation is side-effect free; callers persist the awards it returns.
package badges

import (
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// CheckAndAwardBadges returns the ids of badges that newly qualify, in
// definition order. Badges already present in existing are never returned,
// whatever the current history looks like.
func CheckAndAwardBadges(defs []models.BadgeDefinition, existing []models.UserBadge, habits []models.Habit, now time.Time) []string {
	owned := make(map[string]struct{}, len(existing))
	for _, ub := range existing {
		owned[ub.BadgeID] = struct{}{}
	}

	snapshot := NewSnapshot(habits, now)
	earned := []string{}
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if _, ok := owned[def.ID]; ok {
			continue
		}
		if _, ok := seen[def.ID]; ok {
			continue
		}
		seen[def.ID] = struct{}{}
		if StrategyFor(def.Category).Earned(def.ID, snapshot) {
			earned = append(earned, def.ID)
		}
	}
	return earned
}

// CalculateProgress returns progress towards a badge as an integer 0-100.
func CalculateProgress(def models.BadgeDefinition, habits []models.Habit, now time.Time) int {
	return progress(def, NewSnapshot(habits, now))
}

// Evaluate reports progress for every definition. Badges the user already
// owns are reported as earned at 100 regardless of the current history.
func Evaluate(defs []models.BadgeDefinition, existing []models.UserBadge, habits []models.Habit, now time.Time) []models.BadgeProgress {
	owned := make(map[string]models.UserBadge, len(existing))
	for _, ub := range existing {
		owned[ub.BadgeID] = ub
	}

	snapshot := NewSnapshot(habits, now)
	out := make([]models.BadgeProgress, 0, len(defs))
	for _, def := range defs {
		bp := models.BadgeProgress{Badge: def}
		if ub, ok := owned[def.ID]; ok {
			earnedAt := ub.EarnedAt
			bp.Earned = true
			bp.EarnedAt = &earnedAt
			bp.Progress = 100
		} else {
			bp.Progress = progress(def, snapshot)
		}
		out = append(out, bp)
	}
	return out
}

func progress(def models.BadgeDefinition, s *Snapshot) int {
	return StrategyFor(def.Category).Progress(def.ID, s)
}
