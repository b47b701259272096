package badges

import (
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/utils"
)

// Snapshot is the per-invocation view of a user's habits that every badge
// strategy reads from. Streak data is computed once per habit.
type Snapshot struct {
	Now    time.Time
	Habits []models.Habit

	stats map[int64]models.DerivedHabitStats
	days  map[int64]map[string]time.Time
}

// NewSnapshot derives per-habit stats for the non-deleted habits as of now.
func NewSnapshot(habits []models.Habit, now time.Time) *Snapshot {
	s := &Snapshot{
		Now:   now,
		stats: make(map[int64]models.DerivedHabitStats, len(habits)),
		days:  make(map[int64]map[string]time.Time, len(habits)),
	}
	for _, h := range habits {
		if h.IsDeleted() {
			continue
		}
		id := h.MustID()
		s.Habits = append(s.Habits, h)
		s.stats[id] = stats.CalculateStats(h.Completions, h.StartAt, now)
		s.days[id] = stats.CompletedDays(h.Completions)
	}
	return s
}

// Stats returns the derived stats for a habit in the snapshot.
func (s *Snapshot) Stats(habitID int64) models.DerivedHabitStats {
	return s.stats[habitID]
}

// HabitsIn returns the habits tagged with any of the given categories.
func (s *Snapshot) HabitsIn(categories ...models.HabitCategory) []models.Habit {
	var out []models.Habit
	for _, h := range s.Habits {
		for _, c := range categories {
			if h.Category == c {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

// MaxCurrentStreak is the best current streak among habits.
func (s *Snapshot) MaxCurrentStreak(habits []models.Habit) int {
	best := 0
	for _, h := range habits {
		if streak := s.Stats(h.ID).CurrentStreak; streak > best {
			best = streak
		}
	}
	return best
}

// TotalCompletions sums completed records across habits.
func (s *Snapshot) TotalCompletions(habits []models.Habit) int {
	total := 0
	for _, h := range habits {
		total += s.Stats(h.ID).TotalCompletions
	}
	return total
}

// DistinctCategories counts the distinct category tags in use.
func (s *Snapshot) DistinctCategories() int {
	seen := make(map[models.HabitCategory]struct{})
	for _, h := range s.Habits {
		if h.Category == "" {
			continue
		}
		seen[h.Category] = struct{}{}
	}
	return len(seen)
}

// PerfectDays counts consecutive days, from today backward, on which every
// habit in the snapshot was completed. Pauses and weekly schedules do not
// exempt a habit. With no habits the count is zero.
func (s *Snapshot) PerfectDays() int {
	if len(s.Habits) == 0 {
		return 0
	}
	count := 0
	for d := utils.CivilDay(s.Now); ; d = utils.AddDays(d, -1) {
		key := utils.DayKey(d)
		for _, h := range s.Habits {
			if _, ok := s.days[h.ID][key]; !ok {
				return count
			}
		}
		count++
	}
}
