package handlers

import (
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/state"
)

// NewHabitForm creates a new form for adding habits
func NewHabitForm(fm *state.HabitFormModel) *huh.Form {
	categories := make([]huh.Option[models.HabitCategory], 0, len(models.AllHabitCategories))
	for _, c := range models.AllHabitCategories {
		name := string(c)
		categories = append(categories, huh.NewOption(strings.ToUpper(name[:1])+name[1:], c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(state.ValidateHabitName),
			huh.NewInput().
				Title("Description").
				Description("Optional").
				Value(&fm.Description),
			huh.NewSelect[models.HabitCategory]().
				Title("Category").
				Options(categories...).
				Value(&fm.Category),
			huh.NewSelect[models.FrequencyType]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
				).
				Value(&fm.Frequency),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Days").
				Description("Comma separated, e.g. mon,wed,fri").
				Value(&fm.Days).
				Validate(state.ValidateWeekdays),
		).WithHideFunc(func() bool {
			return fm.Frequency != models.FrequencyWeekly
		}),
	).WithTheme(huh.ThemeDracula())
}

// NewConfirmForm creates a yes/no confirmation bound to confirmed
func NewConfirmForm(title string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
