package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

var (
	// ErrNotFound is returned when a habit, completion or badge does not exist
	// (or is soft-deleted, for lookups that hide deleted rows).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique key is already taken.
	ErrAlreadyExists = errors.New("already exists")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(models.Habit) (int64, error)
	GetHabit(id int64) (models.Habit, error)
	GetHabitByName(userID int64, name string) (models.Habit, error)
	GetAllHabits(userID int64, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	// PauseHabit sets the last paused day; a nil until clears the pause.
	PauseHabit(id int64, until *time.Time) error
	DeleteHabit(id int64) error
	RestoreHabit(id int64) error

	// Completions
	AddCompletion(models.Completion) error
	GetCompletion(habitID int64, day string) (models.Completion, error)
	// DeleteCompletion removes the row outright; un-marking a day leaves no trace.
	DeleteCompletion(habitID int64, day string) error
	GetCompletionsForHabit(habitID int64) ([]models.Completion, error)
	// GetCompletionsForUser returns completions of all the user's habits with
	// startDay <= day <= endDay. Empty bounds are open.
	GetCompletionsForUser(userID int64, startDay, endDay string) ([]models.Completion, error)

	// Badges
	SeedBadges([]models.BadgeDefinition) error
	GetBadges() ([]models.BadgeDefinition, error)
	GetUserBadges(userID int64) ([]models.UserBadge, error)
	// AwardBadges inserts the given badges for a user in one transaction,
	// skipping ones already held, and returns the ids actually inserted.
	AwardBadges(userID int64, badgeIDs []string, earnedAt time.Time) ([]string, error)

	// Utils
	GetConfigPath() string
}
