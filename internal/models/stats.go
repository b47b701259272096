package models

import "time"

// DerivedHabitStats is recomputed on every read and never persisted.
type DerivedHabitStats struct {
	CurrentStreak    int     `json:"currentStreak"`
	LongestStreak    int     `json:"longestStreak"`
	TotalCompletions int     `json:"totalCompletions"`
	CompletionRate   float64 `json:"completionRate"`
}

type DayStatus string

const (
	DayComplete DayStatus = "complete"
	DayPartial  DayStatus = "partial"
	DayNone     DayStatus = "none"
)

type DayHabitDetail struct {
	HabitID     int64      `json:"habitId"`
	Name        string     `json:"name"`
	Completed   bool       `json:"completed"`
	Mood        *int       `json:"mood,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// DailySummary describes which active habits were completed on one day.
type DailySummary struct {
	Date            string           `json:"date"` // YYYY-MM-DD format
	TotalHabits     int              `json:"totalHabits"`
	CompletedHabits int              `json:"completedHabits"`
	CompletionRate  float64          `json:"completionRate"`
	Status          DayStatus        `json:"status"`
	Habits          []DayHabitDetail `json:"habits"`
}
