package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/service"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID int64
}

type DeleteHabitMsg struct {
	Habit models.Habit
}

type Item struct {
	Entry service.HabitToday
}

func (i Item) Title() string {
	if i.Entry.Completed {
		return "✓ " + i.Entry.Habit.Name
	}
	return "○ " + i.Entry.Habit.Name
}

func (i Item) Description() string {
	desc := string(i.Entry.Habit.Category)
	if streak := i.Entry.Stats.CurrentStreak; streak > 0 {
		unit := "days"
		if streak == 1 {
			unit = "day"
		}
		desc = fmt.Sprintf("🔥 %d %s · %s", streak, unit, desc)
	}
	return fmt.Sprintf("%s · %.0f%% overall", desc, i.Entry.Stats.CompletionRate)
}

func (i Item) FilterValue() string { return i.Entry.Habit.Name }

type KeyMap struct {
	Add    key.Binding
	Toggle key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("m", " "),
			key.WithHelp("m", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list  list.Model
	keys  KeyMap
	today string
}

func New(entries []service.HabitToday, width, height int) Model {
	l := list.New(toItems(entries), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete}
	}

	return Model{
		list: l,
		keys: keys,
	}
}

func toItems(entries []service.HabitToday) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	return items
}

// SetHabits replaces the list with today's habits, keeping the cursor.
func (m *Model) SetHabits(entries []service.HabitToday, today string) {
	m.today = today
	m.list.SetItems(toItems(entries))
}

// Today is the day key the list was last loaded for.
func (m Model) Today() string {
	return m.today
}

// Summary returns "done/total" for today.
func (m Model) Summary() (done, total int) {
	for _, it := range m.list.Items() {
		if i, ok := it.(Item); ok {
			total++
			if i.Entry.Completed {
				done++
			}
		}
	}
	return done, total
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Entry.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{Habit: i.Entry.Habit} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Nothing scheduled today.\n  Press 'a' to add a habit."
	}
	return m.list.View()
}

// KeyBindings lists the component's own shortcuts for the help view.
func (m Model) KeyBindings() []key.Binding {
	return []key.Binding{m.keys.Add, m.keys.Toggle, m.keys.Delete}
}

// Filtering reports whether the user is typing a filter, in which case
// global shortcuts must not fire.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
