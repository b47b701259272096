package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
)

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var content string
	switch m.State {
	case constants.StateHabits:
		content = m.HabitsModel.View()
	case constants.StateBadges:
		content = m.BadgesModel.View()
	case constants.StateHistory:
		content = m.HistoryModel.View()
	case constants.StateAddHabit, constants.StateConfirmDelete:
		content = m.Form.View()
		if m.FormError != "" {
			content = lipgloss.JoinVertical(lipgloss.Left, dangerStyle.Render(m.FormError), content)
		}
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStatus(),
		content,
		m.Help.View(m),
	)
	return docStyle.Render(ui)
}

func (m Model) viewTabs() string {
	done, total := m.HabitsModel.Summary()
	earned, badges := m.BadgesModel.Earned()

	tabs := []struct {
		label string
		state constants.SessionState
	}{
		{fmt.Sprintf("Today %d/%d", done, total), constants.StateHabits},
		{fmt.Sprintf("Badges %d/%d", earned, badges), constants.StateBadges},
		{"History", constants.StateHistory},
	}

	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.state == m.State {
			rendered = append(rendered, activeTabStyle.Render(t.label))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n"
}

func (m Model) viewStatus() string {
	switch {
	case m.StatusMessage == "":
		return ""
	case strings.HasPrefix(m.StatusMessage, "⚠"):
		return warningStyle.Render(m.StatusMessage)
	default:
		return successStyle.Render(m.StatusMessage)
	}
}
