package state

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/tui/components/badges"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	"github.com/julianstephens/habitual/internal/tui/components/history"
	"github.com/julianstephens/habitual/internal/utils"
)

// HabitFormModel represents the form model for habit creation
type HabitFormModel struct {
	Name        string
	Description string
	Category    models.HabitCategory
	Frequency   models.FrequencyType
	Days        string // comma separated weekdays, weekly habits only
}

// NewHabitFormModel returns a form model with the usual defaults.
func NewHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		Category:  models.CategoryHealth,
		Frequency: models.FrequencyDaily,
	}
}

// ToHabit builds an unsaved habit for userID from the form values.
func (f *HabitFormModel) ToHabit(userID int64) (models.Habit, error) {
	h := models.Habit{
		UserID:      userID,
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Category:    f.Category,
		Frequency:   models.Frequency{Type: f.Frequency},
	}
	if f.Frequency == models.FrequencyWeekly {
		days, err := utils.ParseWeekdays(f.Days)
		if err != nil {
			return models.Habit{}, err
		}
		h.Frequency.TargetDays = days
	}
	return h, nil
}

// Model represents the shared state for the TUI
type Model struct {
	Service       *service.Service
	UserID        int64
	State         constants.SessionState
	PreviousState constants.SessionState
	Keys          KeyMap
	Help          help.Model
	HabitsModel   habits.Model
	BadgesModel   badges.Model
	HistoryModel  history.Model
	Form          *huh.Form
	HabitForm     *HabitFormModel
	HabitToDelete *models.Habit
	Confirmed     bool
	Quitting      bool
	Width         int
	Height        int
	StatusMessage string // Shown under the tabs until the next refresh
	FormError     string // Error message to display for form operations
}

// New creates a new state Model and loads the initial data.
func New(svc *service.Service, userID int64) Model {
	m := Model{
		Service:      svc,
		UserID:       userID,
		State:        constants.StateHabits,
		Keys:         DefaultKeyMap(),
		Help:         help.New(),
		HabitsModel:  habits.New(nil, 0, 0),
		BadgesModel:  badges.New(nil, 0, 0),
		HistoryModel: history.New(nil, 0, 0),
	}
	m.Refresh()
	return m
}
