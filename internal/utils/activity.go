package utils

import (
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// IsHabitActiveOnDate determines whether a habit is expected to occur on the
// given date, independent of whether it was completed. Only calendar days are
// compared; the time of day is ignored.
func IsHabitActiveOnDate(habit models.Habit, date time.Time) bool {
	day := CivilDay(date)

	if day.Before(CivilDay(habit.StartAt)) {
		return false
	}
	// Pause is inclusive of its end date
	if habit.PauseUntil != nil && !day.After(CivilDay(*habit.PauseUntil)) {
		return false
	}
	// End date itself still counts as active
	if habit.EndAt != nil && day.After(CivilDay(*habit.EndAt)) {
		return false
	}

	switch habit.Frequency.Type {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekly:
		// A weekly habit without target days is malformed; do not let it
		// disqualify the day.
		if len(habit.Frequency.TargetDays) == 0 {
			return true
		}
		return habit.Frequency.HasTargetDay(day.Weekday())
	default:
		// Unknown cadences are rejected by validation on write. Historical rows
		// that slipped through are treated as active rather than failing reads.
		return true
	}
}

// ActiveHabitsOnDate filters habits down to the non-deleted ones active on date.
func ActiveHabitsOnDate(habits []models.Habit, date time.Time) []models.Habit {
	var active []models.Habit
	for _, h := range habits {
		if h.IsDeleted() {
			continue
		}
		if IsHabitActiveOnDate(h, date) {
			active = append(active, h)
		}
	}
	return active
}
