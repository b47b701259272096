package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy the current user's data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	// If force flag is provided, delete existing database
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitual storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		source, err := cli.OpenStore(c.Source)
		if err != nil {
			return fmt.Errorf("invalid source: %w", err)
		}
		if err := copyUserData(ctx, source, ctx.UserID()); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Println("Copy completed successfully!")
	}

	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if config.IsPostgres(ctx.Config.Database) {
		return errors.New("--force is only supported for SQLite databases")
	}

	dbPath := ctx.Store.GetConfigPath()
	// Don't delete if it's the source (user error protection)
	if c.Source != "" {
		absDBPath, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDBPath
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		// Close first so the file is not held open
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// copyUserData copies a user's habits (deleted ones included), their
// completions and earned badges from source into ctx.Store. Habit ids are
// reassigned by the destination.
func copyUserData(ctx *cli.Context, source storage.Provider, userID int64) error {
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	ctx.Println("  Copying habits...")
	habits, err := source.GetAllHabits(userID, true)
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}

	// Deleted habits go first so a live habit can reuse their name.
	sort.SliceStable(habits, func(i, j int) bool {
		return habits[i].IsDeleted() && !habits[j].IsDeleted()
	})

	completions := 0
	for _, h := range habits {
		oldID := h.ID
		h.ID = 0

		newID, err := ctx.Store.AddHabit(h)
		if err != nil {
			return fmt.Errorf("failed to add habit %q: %w", h.Name, err)
		}

		entries, err := source.GetCompletionsForHabit(oldID)
		if err != nil {
			return fmt.Errorf("failed to get completions for habit %q: %w", h.Name, err)
		}
		for _, e := range entries {
			e.HabitID = newID
			if err := ctx.Store.AddCompletion(e); err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
				return fmt.Errorf("failed to add completion %s: %w", e.ID, err)
			}
			completions++
		}
	}
	ctx.Printf("    Copied %d habits\n", len(habits))
	ctx.Printf("    Copied %d completions\n", completions)

	ctx.Println("  Copying badges...")
	earned, err := source.GetUserBadges(userID)
	if err != nil {
		return fmt.Errorf("failed to get badges from source: %w", err)
	}
	byTime := make(map[int64][]models.UserBadge)
	for _, ub := range earned {
		byTime[ub.EarnedAt.UnixNano()] = append(byTime[ub.EarnedAt.UnixNano()], ub)
	}
	for _, group := range byTime {
		ids := make([]string, 0, len(group))
		for _, ub := range group {
			ids = append(ids, ub.BadgeID)
		}
		if _, err := ctx.Store.AwardBadges(userID, ids, group[0].EarnedAt); err != nil {
			return fmt.Errorf("failed to award badges: %w", err)
		}
	}
	ctx.Printf("    Copied %d badges\n", len(earned))

	return nil
}
