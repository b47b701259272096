package badges

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
)

const barWidth = 20

type Item struct {
	Progress models.BadgeProgress
	bar      string
}

func (i Item) Title() string {
	b := i.Progress.Badge
	title := b.Name
	if b.Icon != "" {
		title = b.Icon + " " + title
	}
	if b.Rarity != "" && b.Rarity != models.RarityCommon {
		title += fmt.Sprintf(" (%s)", b.Rarity)
	}
	return title
}

func (i Item) Description() string {
	if i.Progress.Earned {
		if i.Progress.EarnedAt != nil {
			return "earned " + i.Progress.EarnedAt.Format("Jan 2, 2006")
		}
		return "earned"
	}
	if i.Progress.Badge.IsPremium {
		return "premium · " + i.Progress.Badge.Criteria
	}
	return fmt.Sprintf("%s %3d%% · %s", i.bar, i.Progress.Progress, i.Progress.Badge.Criteria)
}

func (i Item) FilterValue() string { return i.Progress.Badge.Name }

type Model struct {
	list list.Model
	bar  progress.Model
}

func New(items []models.BadgeProgress, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Badges"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	m := Model{
		list: l,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage()),
	}
	m.SetBadges(items)
	return m
}

// SetBadges replaces the list, earned badges first.
func (m *Model) SetBadges(all []models.BadgeProgress) {
	items := make([]list.Item, 0, len(all))
	for _, p := range all {
		if p.Earned {
			items = append(items, Item{Progress: p})
		}
	}
	for _, p := range all {
		if !p.Earned {
			items = append(items, Item{Progress: p, bar: m.bar.ViewAs(float64(p.Progress) / 100)})
		}
	}
	m.list.SetItems(items)
}

// Earned returns how many badges are earned out of the total.
func (m Model) Earned() (earned, total int) {
	for _, it := range m.list.Items() {
		if i, ok := it.(Item); ok {
			total++
			if i.Progress.Earned {
				earned++
			}
		}
	}
	return earned, total
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No badges defined."
	}
	return m.list.View()
}

// Filtering reports whether the user is typing a filter, in which case
// global shortcuts must not fire.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
