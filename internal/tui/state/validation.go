package state

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/utils"
)

// ValidateHabitName checks a habit name as typed into a form.
func ValidateHabitName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if len(s) > constants.MaxHabitNameLen {
		return fmt.Errorf("habit name must be at most %d characters", constants.MaxHabitNameLen)
	}
	return nil
}

// ValidateWeekdays checks a comma-separated weekday list. Blank is rejected
// because a weekly habit needs at least one target day.
func ValidateWeekdays(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("pick at least one day, e.g. mon,wed,fri")
	}
	_, err := utils.ParseWeekdays(s)
	return err
}
