package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/tui/handlers"
)

// chrome is the number of rows used by tabs, status line and help.
const chrome = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.State {
	case constants.StateAddHabit:
		return m, handlers.HandleAddHabitState(&m.Model, msg)
	case constants.StateConfirmDelete:
		return m, handlers.HandleConfirmDeleteState(&m.Model, msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		h, v := docStyle.GetFrameSize()
		width, height := msg.Width-h, msg.Height-v-chrome
		m.HabitsModel.SetSize(width, height)
		m.BadgesModel.SetSize(width, height)
		m.HistoryModel.SetSize(width, height)
		m.Help.Width = width
		return m, nil

	case tea.KeyMsg:
		if !m.HabitsModel.Filtering() && !m.BadgesModel.Filtering() {
			if handled, cmd := handlers.HandleGlobalKeys(&m.Model, msg); handled {
				return m, cmd
			}
		}
	}

	if handled, cmd := handlers.HandleHabitMessages(&m.Model, msg); handled {
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.State {
	case constants.StateHabits:
		m.HabitsModel, cmd = m.HabitsModel.Update(msg)
	case constants.StateBadges:
		m.BadgesModel, cmd = m.BadgesModel.Update(msg)
	case constants.StateHistory:
		m.HistoryModel, cmd = m.HistoryModel.Update(msg)
	}
	return m, cmd
}
