package handlers

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	"github.com/julianstephens/habitual/internal/tui/state"
)

// updateForm forwards msg to the active form. It reports true when the user
// pressed esc, in which case the caller should leave the form.
func updateForm(m *state.Model, msg tea.Msg) (bool, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return true, nil
	}
	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}
	return false, cmd
}

// HandleAddHabitState handles the add habit state
func HandleAddHabitState(m *state.Model, msg tea.Msg) tea.Cmd {
	escaped, cmd := updateForm(m, msg)
	if escaped {
		m.State = constants.StateHabits
		return nil
	}

	switch m.Form.State {
	case huh.StateCompleted:
		habit, err := m.HabitForm.ToHabit(m.UserID)
		if err == nil {
			_, err = m.Service.CreateHabit(context.Background(), habit)
		}
		if err != nil {
			// Reopen the form with the values kept so the user can fix them.
			m.FormError = err.Error()
			m.Form = NewHabitForm(m.HabitForm)
			return m.Form.Init()
		}
		m.FormError = ""
		m.StatusMessage = fmt.Sprintf("Added habit: %s", habit.Name)
		m.Refresh()
		m.State = constants.StateHabits
	case huh.StateAborted:
		m.State = constants.StateHabits
	}
	return cmd
}

// HandleConfirmDeleteState handles the delete confirmation state
func HandleConfirmDeleteState(m *state.Model, msg tea.Msg) tea.Cmd {
	escaped, cmd := updateForm(m, msg)
	if escaped {
		m.HabitToDelete = nil
		m.State = constants.StateHabits
		return nil
	}

	switch m.Form.State {
	case huh.StateCompleted:
		if m.Confirmed && m.HabitToDelete != nil {
			if err := m.Service.DeleteHabit(context.Background(), m.UserID, m.HabitToDelete.ID); err != nil {
				m.StatusMessage = fmt.Sprintf("⚠ Failed to delete habit: %v", err)
			} else {
				m.StatusMessage = fmt.Sprintf("Deleted habit: %s (restore with 'habitual habit restore')", m.HabitToDelete.Name)
				m.Refresh()
			}
		}
		m.HabitToDelete = nil
		m.State = constants.StateHabits
	case huh.StateAborted:
		m.HabitToDelete = nil
		m.State = constants.StateHabits
	}
	return cmd
}

// HandleHabitMessages handles messages from the habits component
func HandleHabitMessages(m *state.Model, msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.HabitForm = state.NewHabitFormModel()
		m.FormError = ""
		m.Form = NewHabitForm(m.HabitForm)
		m.State = constants.StateAddHabit
		return true, m.Form.Init()

	case habits.ToggleHabitMsg:
		result, err := m.Service.ToggleCompletion(context.Background(), m.UserID, msg.ID, "", nil, nil)
		if err != nil {
			m.StatusMessage = fmt.Sprintf("⚠ %v", err)
			return true, nil
		}
		m.StatusMessage = ""
		if len(result.NewBadges) > 0 {
			earned := make([]string, 0, len(result.NewBadges))
			for _, b := range result.NewBadges {
				earned = append(earned, notifier.BadgeMessage(b))
			}
			m.StatusMessage = strings.Join(earned, " · ")
		}
		m.Refresh()
		return true, nil

	case habits.DeleteHabitMsg:
		h := msg.Habit
		m.HabitToDelete = &h
		m.Confirmed = false
		m.Form = NewConfirmForm(fmt.Sprintf("Delete habit %q?", h.Name), &m.Confirmed)
		m.State = constants.StateConfirmDelete
		return true, m.Form.Init()
	}
	return false, nil
}
