// Package tui is the interactive dashboard: today's habits, badge progress
// and recent history.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/tui/state"
)

type Model struct {
	state.Model
}

func NewModel(svc *service.Service, userID int64) Model {
	return Model{Model: state.New(svc, userID)}
}

func (m Model) ShortHelp() []key.Binding {
	keys := m.Keys.ShortHelp()
	if m.State == constants.StateHabits {
		keys = append(keys, m.HabitsModel.KeyBindings()...)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	groups := m.Keys.FullHelp()
	if m.State == constants.StateHabits {
		groups = append(groups, m.HabitsModel.KeyBindings())
	}
	return groups
}

func (m Model) Init() tea.Cmd {
	return nil
}
