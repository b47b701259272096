package system

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/notifier"
)

type reminderSender interface {
	Notify(ctx context.Context, text string) error
}

// newReminderSender is swapped out in tests.
var newReminderSender = func() reminderSender { return notifier.New() }

type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if !ctx.Config.Notify {
		if c.DryRun {
			ctx.Println("Notifications are disabled.")
		}
		return nil
	}

	overview, err := ctx.Service.TodayOverview(context.Background(), ctx.UserID())
	if err != nil {
		return fmt.Errorf("failed to load today's habits: %w", err)
	}

	var remaining []string
	for _, entry := range overview.Habits {
		if !entry.Completed {
			remaining = append(remaining, entry.Habit.Name)
		}
	}
	if len(remaining) == 0 {
		if c.DryRun {
			ctx.Println("All habits done for today.")
		}
		return nil
	}

	msg := reminderMessage(remaining)
	if c.DryRun {
		ctx.Println("[DryRun] " + msg)
		return nil
	}

	if err := newReminderSender().Notify(context.Background(), msg); err != nil {
		if errors.Is(err, notifier.ErrTrayNotRunning) {
			ctx.Printf("Notifications unavailable: %v\n", err)
			return nil
		}
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

func reminderMessage(names []string) string {
	noun := "habits"
	if len(names) == 1 {
		noun = "habit"
	}
	return fmt.Sprintf("%d %s left today: %s", len(names), noun, strings.Join(names, ", "))
}
