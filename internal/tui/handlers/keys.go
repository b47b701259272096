package handlers

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/tui/state"
)

var tabs = []constants.SessionState{
	constants.StateHabits,
	constants.StateBadges,
	constants.StateHistory,
}

// IsMainView reports whether s is one of the tabbed views rather than a form.
func IsMainView(s constants.SessionState) bool {
	for _, t := range tabs {
		if s == t {
			return true
		}
	}
	return false
}

func cycle(current constants.SessionState, step int) constants.SessionState {
	for i, t := range tabs {
		if t == current {
			return tabs[(i+step+len(tabs))%len(tabs)]
		}
	}
	return current
}

// HandleGlobalKeys handles key presses shared by every main view
func HandleGlobalKeys(m *state.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return true, tea.Quit
	}
	if !IsMainView(m.State) {
		return false, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return true, tea.Quit
	case key.Matches(msg, m.Keys.Tab):
		m.State = cycle(m.State, 1)
		return true, nil
	case key.Matches(msg, m.Keys.ShiftTab):
		m.State = cycle(m.State, -1)
		return true, nil
	case key.Matches(msg, m.Keys.Badges):
		if m.State == constants.StateBadges {
			m.State = constants.StateHabits
		} else {
			m.State = constants.StateBadges
		}
		return true, nil
	case key.Matches(msg, m.Keys.History):
		m.State = constants.StateHistory
		return true, nil
	case key.Matches(msg, m.Keys.Refresh):
		m.StatusMessage = ""
		m.Refresh()
		return true, nil
	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		return true, nil
	}
	return false, nil
}
