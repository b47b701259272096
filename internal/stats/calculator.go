// Package stats derives streak and completion-rate statistics from a habit's
// completion history.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

const day = 24 * time.Hour

// CalculateStats computes the derived statistics for one habit as of now.
// Only completed records participate; several records on the same calendar
// day count as a single streak day.
func CalculateStats(completions []models.Completion, startAt time.Time, now time.Time) models.DerivedHabitStats {
	days := CompletedDays(completions)

	total := 0
	for _, c := range completions {
		if c.IsCompleted() {
			total++
		}
	}

	return models.DerivedHabitStats{
		CurrentStreak:    CurrentStreak(days, now),
		LongestStreak:    LongestStreak(days),
		TotalCompletions: total,
		CompletionRate:   CompletionRate(total, startAt, now),
	}
}

// CompletedDays reduces completions to the set of distinct completed days,
// keyed by YYYY-MM-DD. Records whose day does not parse are ignored.
func CompletedDays(completions []models.Completion) map[string]time.Time {
	days := make(map[string]time.Time, len(completions))
	for _, c := range completions {
		if !c.IsCompleted() {
			continue
		}
		d, err := utils.ParseDay(c.Day)
		if err != nil {
			continue
		}
		days[utils.DayKey(d)] = d
	}
	return days
}

// CurrentStreak walks backward from today counting consecutive completed
// days. A habit not yet done today does not break the streak until the day
// is over, so the walk starts from yesterday in that case.
func CurrentStreak(days map[string]time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	cursor := utils.CivilDay(now)
	if _, ok := days[utils.DayKey(cursor)]; !ok {
		cursor = utils.AddDays(cursor, -1)
	}

	streak := 0
	for {
		if _, ok := days[utils.DayKey(cursor)]; !ok {
			break
		}
		streak++
		cursor = utils.AddDays(cursor, -1)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completed days.
func LongestStreak(days map[string]time.Time) int {
	if len(days) == 0 {
		return 0
	}

	sorted := SortedDays(days)
	longest := 1
	run := 1
	for i := 1; i < len(sorted); i++ {
		if utils.DaysBetween(sorted[i-1], sorted[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CompletionRate is total completions over elapsed days since start, as a
// percentage rounded to two decimals. It is a raw ratio and is not weighted
// by a weekly habit's target days.
func CompletionRate(total int, startAt time.Time, now time.Time) float64 {
	elapsed := math.Ceil(float64(now.Sub(startAt)) / float64(day))
	daysSinceStart := math.Max(1, elapsed)
	return Round2(float64(total) / daysSinceStart * 100)
}

// SortedDays returns the days of the set in ascending order.
func SortedDays(days map[string]time.Time) []time.Time {
	sorted := make([]time.Time, 0, len(days))
	for _, d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})
	return sorted
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
