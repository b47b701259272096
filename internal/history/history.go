// Package history aggregates a user's habits into one summary per calendar day.
package history

import (
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/utils"
)

type completionKey struct {
	habitID int64
	day     string
}

// BuildHistory returns one DailySummary per calendar day in [startDate, endDate],
// ascending. Habits must carry their completions. The caller bounds the range.
func BuildHistory(habits []models.Habit, startDate, endDate time.Time) []models.DailySummary {
	start := utils.CivilDay(startDate)
	end := utils.CivilDay(endDate)
	if end.Before(start) {
		return []models.DailySummary{}
	}

	index := indexCompletions(habits)
	summaries := make([]models.DailySummary, 0, utils.DaysBetween(start, end)+1)

	for d := start; !d.After(end); d = utils.AddDays(d, 1) {
		summaries = append(summaries, summarizeDay(habits, index, d))
	}
	return summaries
}

func indexCompletions(habits []models.Habit) map[completionKey]models.Completion {
	index := make(map[completionKey]models.Completion)
	for _, h := range habits {
		if h.IsDeleted() {
			continue
		}
		id := h.MustID()
		for _, c := range h.Completions {
			if !c.IsCompleted() {
				continue
			}
			index[completionKey{habitID: id, day: c.Day}] = c
		}
	}
	return index
}

func summarizeDay(habits []models.Habit, index map[completionKey]models.Completion, d time.Time) models.DailySummary {
	key := utils.DayKey(d)
	active := utils.ActiveHabitsOnDate(habits, d)

	summary := models.DailySummary{
		Date:        key,
		TotalHabits: len(active),
		Habits:      make([]models.DayHabitDetail, 0, len(active)),
	}

	for _, h := range active {
		detail := models.DayHabitDetail{HabitID: h.ID, Name: h.Name}
		if c, ok := index[completionKey{habitID: h.ID, day: key}]; ok {
			completedAt := c.CompletedAt
			detail.Completed = true
			detail.Mood = c.Mood
			detail.Notes = c.Note
			detail.CompletedAt = &completedAt
			summary.CompletedHabits++
		}
		summary.Habits = append(summary.Habits, detail)
	}

	if summary.TotalHabits > 0 {
		summary.CompletionRate = stats.Round2(float64(summary.CompletedHabits) / float64(summary.TotalHabits) * 100)
	}
	summary.Status = classify(summary.CompletedHabits, summary.TotalHabits)
	return summary
}

// classify compares counts rather than the rounded rate.
func classify(completed, total int) models.DayStatus {
	switch {
	case total > 0 && completed == total:
		return models.DayComplete
	case completed > 0:
		return models.DayPartial
	default:
		return models.DayNone
	}
}
