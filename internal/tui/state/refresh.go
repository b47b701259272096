package state

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
)

// Refresh reloads every view from the service. Failures are shown in the
// status line rather than aborting the TUI.
func (m *Model) Refresh() {
	ctx := context.Background()

	overview, err := m.Service.TodayOverview(ctx, m.UserID)
	if err != nil {
		m.fail("load today's habits", err)
		return
	}
	m.HabitsModel.SetHabits(overview.Habits, overview.Date)

	progress, err := m.Service.BadgeProgress(ctx, m.UserID)
	if err != nil {
		m.fail("load badges", err)
		return
	}
	m.BadgesModel.SetBadges(progress)

	days, err := m.Service.RecentHistory(ctx, m.UserID, constants.DefaultHistoryDays)
	if err != nil {
		m.fail("load history", err)
		return
	}
	m.HistoryModel.SetDays(days)
}

func (m *Model) fail(action string, err error) {
	logger.Error("TUI refresh failed", "action", action, "error", err)
	m.StatusMessage = fmt.Sprintf("⚠ Failed to %s: %v", action, err)
}
