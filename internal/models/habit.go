package models

import "time"

type FrequencyType string

const (
	FrequencyDaily  FrequencyType = "daily"
	FrequencyWeekly FrequencyType = "weekly"
)

// HabitCategory is a display/grouping tag. It also drives category and
// diversity badge criteria.
type HabitCategory string

const (
	CategoryHealth       HabitCategory = "health"
	CategoryFitness      HabitCategory = "fitness"
	CategoryMindfulness  HabitCategory = "mindfulness"
	CategoryProductivity HabitCategory = "productivity"
	CategoryLearning     HabitCategory = "learning"
	CategorySocial       HabitCategory = "social"
	CategoryPersonal     HabitCategory = "personal"
	CategoryFinance      HabitCategory = "finance"
	CategoryCreativity   HabitCategory = "creativity"
	CategoryOther        HabitCategory = "other"
)

// AllHabitCategories lists every known habit category in display order.
var AllHabitCategories = []HabitCategory{
	CategoryHealth,
	CategoryFitness,
	CategoryMindfulness,
	CategoryProductivity,
	CategoryLearning,
	CategorySocial,
	CategoryPersonal,
	CategoryFinance,
	CategoryCreativity,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c HabitCategory) Valid() bool {
	for _, known := range AllHabitCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Frequency is the cadence policy of a habit. Daily habits carry no target
// days; weekly habits carry weekday numbers (0=Sunday .. 6=Saturday).
type Frequency struct {
	Type       FrequencyType `json:"type"`
	TargetDays []int         `json:"targetDays,omitempty"`
}

// HasTargetDay reports whether weekday is one of the frequency's target days.
func (f Frequency) HasTargetDay(weekday time.Weekday) bool {
	for _, d := range f.TargetDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

type Habit struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"userId"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Category    HabitCategory `json:"category"`
	Subcategory string        `json:"subcategory,omitempty"`
	Frequency   Frequency     `json:"frequency"`
	StartAt     time.Time     `json:"startAt"`
	EndAt       *time.Time    `json:"endAt,omitempty"`
	PauseUntil  *time.Time    `json:"pauseUntil,omitempty"`
	DeletedAt   *time.Time    `json:"deletedAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`

	// Completions is eagerly loaded by the storage layer when the habit is
	// handed to the analytics engine.
	Completions []Completion `json:"completions,omitempty"`
}

// IsDeleted reports whether the habit has been soft-deleted.
func (h Habit) IsDeleted() bool {
	return h.DeletedAt != nil
}

type CompletionStatus string

const (
	CompletionCompleted CompletionStatus = "completed"
)

// Completion records that a habit was done on a calendar day. There is at
// most one completion per habit per day.
type Completion struct {
	ID          string           `json:"id"`
	HabitID     int64            `json:"habitId"`
	Day         string           `json:"day"` // YYYY-MM-DD format
	Status      CompletionStatus `json:"status"`
	Mood        *int             `json:"mood,omitempty"`
	Note        *string          `json:"note,omitempty"`
	CompletedAt time.Time        `json:"completedAt"`
}

// IsCompleted reports whether the record participates in statistics.
func (c Completion) IsCompleted() bool {
	return c.Status == CompletionCompleted
}

// MustID returns the habit id, panicking when it is unset. A habit without an
// id reaching the analytics code is a programming error.
func (h Habit) MustID() int64 {
	if h.ID == 0 {
		panic("models: habit " + h.Name + " has no id")
	}
	return h.ID
}
