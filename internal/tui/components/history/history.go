package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

var columns = []table.Column{
	{Title: "Date", Width: 16},
	{Title: "Done", Width: 8},
	{Title: "Rate", Width: 6},
	{Title: "", Width: 4},
}

type Model struct {
	table table.Model
	days  []models.DailySummary
}

func New(days []models.DailySummary, width, height int) Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)
	m := Model{table: t}
	m.SetDays(days)
	return m
}

// SetDays shows days newest first.
func (m *Model) SetDays(days []models.DailySummary) {
	m.days = days
	rows := make([]table.Row, 0, len(days))
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		rows = append(rows, table.Row{
			formatDate(d.Date),
			fmt.Sprintf("%d/%d", d.CompletedHabits, d.TotalHabits),
			fmt.Sprintf("%.0f%%", d.CompletionRate),
			StatusMark(d.Status),
		})
	}
	m.table.SetRows(rows)
}

// StatusMark is the one-character marker for a day status.
func StatusMark(s models.DayStatus) string {
	switch s {
	case models.DayComplete:
		return "●"
	case models.DayPartial:
		return "◐"
	default:
		return "○"
	}
}

func formatDate(day string) string {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return day
	}
	return t.Format("Mon Jan 02")
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.days) == 0 {
		return "\n  No history yet."
	}
	return m.table.View()
}

func (m *Model) SetSize(width, height int) {
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}
