package habits

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tui/handlers"
	"github.com/julianstephens/habitual/internal/tui/state"
	"github.com/julianstephens/habitual/internal/utils"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Today   HabitTodayCmd   `cmd:"" help:"Show today's habit status."`
	Mark    HabitMarkCmd    `cmd:"" help:"Toggle a habit's completion for a day."`
	Stats   HabitStatsCmd   `cmd:"" help:"Show streaks and completion rate for a habit."`
	Pause   HabitPauseCmd   `cmd:"" help:"Pause a habit until a date, or resume it."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit (soft delete)."`
	Restore HabitRestoreCmd `cmd:"" help:"Restore a deleted habit."`
}

// runForm is swapped out in tests.
var runForm = func(fm *state.HabitFormModel) error {
	return handlers.NewHabitForm(fm).Run()
}

func resolve(ctx *cli.Context, ref string) (models.Habit, error) {
	habit, err := ctx.Service.ResolveHabit(context.Background(), ctx.UserID(), ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Habit{}, fmt.Errorf("habit %q not found", ref)
		}
		return models.Habit{}, err
	}
	return habit, nil
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Category    string `help:"Habit category." default:"other"`
	Description string `help:"Optional description."`
	Days        string `help:"Target weekdays for a weekly habit, e.g. mon,wed,fri. Omit for a daily habit."`
	Start       string `help:"First day of the habit in YYYY-MM-DD format (default: today)."`
	End         string `help:"Last day of the habit in YYYY-MM-DD format."`
	Interactive bool   `short:"i" help:"Fill in the habit with an interactive form."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	var habit models.Habit
	if c.Interactive {
		fm := state.NewHabitFormModel()
		fm.Name = c.Name
		if err := runForm(fm); err != nil {
			return err
		}
		h, err := fm.ToHabit(ctx.UserID())
		if err != nil {
			return err
		}
		habit = h
	} else {
		h, err := c.habitFromFlags(ctx.UserID())
		if err != nil {
			return err
		}
		habit = h
	}

	created, err := ctx.Service.CreateHabit(context.Background(), habit)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return fmt.Errorf("habit with name %q already exists", habit.Name)
		}
		return err
	}

	ctx.Printf("Added habit: %s (id %d, %s)\n", created.Name, created.ID, cli.FormatFrequency(created.Frequency))
	return nil
}

func (c *HabitAddCmd) habitFromFlags(userID int64) (models.Habit, error) {
	if strings.TrimSpace(c.Name) == "" {
		return models.Habit{}, errors.New("habit name is required (or use --interactive)")
	}

	h := models.Habit{
		UserID:      userID,
		Name:        strings.TrimSpace(c.Name),
		Description: strings.TrimSpace(c.Description),
		Category:    models.HabitCategory(strings.ToLower(strings.TrimSpace(c.Category))),
		Frequency:   models.Frequency{Type: models.FrequencyDaily},
	}
	if c.Days != "" {
		days, err := utils.ParseWeekdays(c.Days)
		if err != nil {
			return models.Habit{}, err
		}
		h.Frequency = models.Frequency{Type: models.FrequencyWeekly, TargetDays: days}
	}
	if c.Start != "" {
		start, err := utils.ParseDay(c.Start)
		if err != nil {
			return models.Habit{}, fmt.Errorf("invalid start date: %s (expected YYYY-MM-DD)", c.Start)
		}
		h.StartAt = start
	}
	if c.End != "" {
		end, err := utils.ParseDay(c.End)
		if err != nil {
			return models.Habit{}, fmt.Errorf("invalid end date: %s (expected YYYY-MM-DD)", c.End)
		}
		h.EndAt = &end
	}
	return h, nil
}

type HabitListCmd struct {
	Deleted bool `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Service.ListHabits(context.Background(), ctx.UserID(), c.Deleted)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	today, _ := utils.ParseDay(ctx.Service.Today())
	for _, habit := range habits {
		status := ""
		switch {
		case habit.IsDeleted():
			status = " [DELETED]"
		case habit.PauseUntil != nil && !utils.CivilDay(*habit.PauseUntil).Before(today):
			status = fmt.Sprintf(" [PAUSED until %s]", utils.DayKey(*habit.PauseUntil))
		case habit.EndAt != nil && utils.CivilDay(*habit.EndAt).Before(today):
			status = " [ENDED]"
		}
		ctx.Printf("%4d  %-24s %-13s %s%s\n", habit.ID, habit.Name, habit.Category, cli.FormatFrequency(habit.Frequency), status)
	}

	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	overview, err := ctx.Service.TodayOverview(context.Background(), ctx.UserID())
	if err != nil {
		return err
	}

	if len(overview.Habits) == 0 {
		ctx.Println("No habits scheduled for today.")
		return nil
	}

	ctx.Printf("Habits for %s:\n\n", overview.Date)
	for _, entry := range overview.Habits {
		status := "[ ]"
		if entry.Completed {
			status = "[x]"
		}
		streak := ""
		if entry.Stats.CurrentStreak > 0 {
			streak = fmt.Sprintf("  🔥 %d", entry.Stats.CurrentStreak)
		}
		ctx.Printf("%s %s%s\n", status, entry.Habit.Name, streak)
	}

	ctx.Printf("\nRecorded: %d/%d\n", overview.Summary.CompletedHabits, overview.Summary.TotalHabits)
	return nil
}

type HabitMarkCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
	Mood  int    `help:"Mood from 1 to 5."`
	Note  string `help:"Optional note for this entry."`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = ctx.Service.Today()
	} else if _, err := utils.ParseDay(day); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}

	var mood *int
	if c.Mood != 0 {
		mood = &c.Mood
	}
	var note *string
	if c.Note != "" {
		note = &c.Note
	}

	result, err := ctx.Service.ToggleCompletion(context.Background(), ctx.UserID(), habit.ID, day, mood, note)
	if err != nil {
		return err
	}

	if !result.Completed {
		ctx.Printf("Unmarked habit %q for %s\n", habit.Name, day)
		return nil
	}

	ctx.Printf("Marked habit %q for %s\n", habit.Name, day)
	for _, def := range result.NewBadges {
		ctx.Println("  " + notifier.BadgeMessage(def))
	}
	return nil
}

type HabitStatsCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}

	st, err := ctx.Service.HabitStats(context.Background(), ctx.UserID(), habit.ID)
	if err != nil {
		return err
	}

	ctx.Printf("%s (%s, %s)\n", habit.Name, habit.Category, cli.FormatFrequency(habit.Frequency))
	ctx.Printf("  Current streak:   %d %s\n", st.CurrentStreak, plural(st.CurrentStreak, "day", "days"))
	ctx.Printf("  Longest streak:   %d %s\n", st.LongestStreak, plural(st.LongestStreak, "day", "days"))
	ctx.Printf("  Completions:      %d\n", st.TotalCompletions)
	ctx.Printf("  Completion rate:  %.1f%%\n", st.CompletionRate)
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

type HabitPauseCmd struct {
	Habit  string `arg:"" help:"Habit ID or name."`
	Until  string `help:"Last paused day in YYYY-MM-DD format." xor:"pause"`
	Resume bool   `help:"Clear the pause." xor:"pause"`
}

func (c *HabitPauseCmd) Run(ctx *cli.Context) error {
	if c.Until == "" && !c.Resume {
		return errors.New("either --until or --resume is required")
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}

	if c.Resume {
		if err := ctx.Service.PauseHabit(context.Background(), ctx.UserID(), habit.ID, nil); err != nil {
			return err
		}
		ctx.Printf("Resumed habit: %s\n", habit.Name)
		return nil
	}

	until, err := utils.ParseDay(c.Until)
	if err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Until)
	}
	if err := ctx.Service.PauseHabit(context.Background(), ctx.UserID(), habit.ID, &until); err != nil {
		return err
	}
	ctx.Printf("Paused habit %s through %s\n", habit.Name, c.Until)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or name to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}

	if err := ctx.Service.DeleteHabit(context.Background(), ctx.UserID(), habit.ID); err != nil {
		return err
	}

	ctx.Printf("Deleted habit: %s\n", habit.Name)
	ctx.Println("(This is a soft delete. Use 'habitual habit restore' to undo)")
	return nil
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"ID or name of the deleted habit to restore."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Service.ListHabits(context.Background(), ctx.UserID(), true)
	if err != nil {
		return err
	}

	var habit *models.Habit
	for i, h := range habits {
		if h.IsDeleted() && (h.Name == c.Habit || strconv.FormatInt(h.ID, 10) == c.Habit) {
			habit = &habits[i]
			break
		}
	}
	if habit == nil {
		return fmt.Errorf("deleted habit %q not found", c.Habit)
	}

	if err := ctx.Service.RestoreHabit(context.Background(), ctx.UserID(), habit.ID); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return fmt.Errorf("a live habit named %q already exists", habit.Name)
		}
		return err
	}

	ctx.Printf("Restored habit: %s\n", habit.Name)
	return nil
}
