package system

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

type DebugCmd struct {
	DBPath     *DebugDBPathCmd     `cmd:"" help:"Show database path."`
	DumpHabit  *DebugDumpHabitCmd  `cmd:"" help:"Dump a habit and its completions as JSON."`
	DumpDay    *DebugDumpDayCmd    `cmd:"" help:"Dump the daily summary for a date as JSON."`
	DumpBadges *DebugDumpBadgesCmd `cmd:"" help:"Dump badge progress as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"ID or name of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	habit, err := ctx.Service.ResolveHabit(context.Background(), ctx.UserID(), cmd.Habit)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("habit not found: %s", cmd.Habit)
		}
		return fmt.Errorf("failed to get habit: %w", err)
	}

	completions, err := ctx.Store.GetCompletionsForHabit(habit.ID)
	if err != nil {
		return fmt.Errorf("failed to get completions: %w", err)
	}
	habit.Completions = completions

	return printJSON(ctx, habit)
}

type DebugDumpDayCmd struct {
	Date string `arg:"" help:"Date to dump (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	date := cmd.Date
	if date == "today" {
		date = ctx.Service.Today()
	}
	if _, err := utils.ParseDay(date); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", date)
	}

	days, err := ctx.Service.History(context.Background(), ctx.UserID(), date, date)
	if err != nil {
		return fmt.Errorf("failed to build summary: %w", err)
	}
	return printJSON(ctx, days[0])
}

type DebugDumpBadgesCmd struct{}

func (cmd *DebugDumpBadgesCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	progress, err := ctx.Service.BadgeProgress(context.Background(), ctx.UserID())
	if err != nil {
		return fmt.Errorf("failed to get badges: %w", err)
	}
	return printJSON(ctx, progress)
}
