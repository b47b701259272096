package system

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/badges"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, _ := setupTestContext(t)

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}

	defs, err := ctx.Store.GetBadges()
	if err != nil {
		t.Fatalf("failed to get badges: %v", err)
	}
	if len(defs) != len(badges.DefaultCatalog()) {
		t.Errorf("expected %d seeded badges, got %d", len(badges.DefaultCatalog()), len(defs))
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, _ := setupTestContext(t)

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if _, err := ctx.Store.AddHabit(testHabit("Read")); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if err := ctx.Store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second init failed: %v", err)
	}

	habits, err := ctx.Store.GetAllHabits(1, false)
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(habits) != 1 {
		t.Errorf("expected existing habit to survive re-init, got %d habits", len(habits))
	}
}

func TestInitCmd_Force(t *testing.T) {
	ctx, _, out := setupTestContext(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := ctx.Store.AddHabit(testHabit("Read")); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}

	habits, err := ctx.Store.GetAllHabits(1, true)
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("expected empty database after --force, got %d habits", len(habits))
	}
	if !strings.Contains(out.String(), "Deleted existing database") {
		t.Errorf("expected deletion message, got %q", out.String())
	}
}

func TestInitCmd_ForceRejectsSameSource(t *testing.T) {
	ctx, dbPath, _ := setupTestContext(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "source and destination are the same") {
		t.Fatalf("expected same-source error, got %v", err)
	}
	if _, statErr := os.Stat(dbPath); statErr != nil {
		t.Errorf("database should not have been deleted: %v", statErr)
	}
}

func TestInitCmd_CopiesFromSource(t *testing.T) {
	sourcePath := filepath.Join(t.TempDir(), "source.db")
	source := sqlite.NewStore(sourcePath)
	if err := source.Init(); err != nil {
		t.Fatalf("failed to init source: %v", err)
	}

	liveID, err := source.AddHabit(testHabit("Read"))
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	goneID, err := source.AddHabit(testHabit("Run"))
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if err := source.DeleteHabit(goneID); err != nil {
		t.Fatalf("failed to delete habit: %v", err)
	}
	for _, day := range []string{"2024-03-01", "2024-03-02"} {
		if err := source.AddCompletion(models.Completion{HabitID: liveID, Day: day}); err != nil {
			t.Fatalf("failed to add completion: %v", err)
		}
	}
	if _, err := source.AwardBadges(1, []string{badges.BadgeFirstStep}, testNow); err != nil {
		t.Fatalf("failed to award badge: %v", err)
	}
	if err := source.Close(); err != nil {
		t.Fatalf("failed to close source: %v", err)
	}

	ctx, _, _ := setupTestContext(t)
	if err := (&InitCmd{Source: sourcePath}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}

	live, err := ctx.Store.GetAllHabits(1, false)
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(live) != 1 || live[0].Name != "Read" {
		t.Fatalf("expected only Read to be live, got %+v", live)
	}
	all, err := ctx.Store.GetAllHabits(1, true)
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected deleted habit to be copied too, got %d habits", len(all))
	}

	completions, err := ctx.Store.GetCompletionsForHabit(live[0].ID)
	if err != nil {
		t.Fatalf("failed to get completions: %v", err)
	}
	if len(completions) != 2 {
		t.Errorf("expected 2 completions, got %d", len(completions))
	}

	earned, err := ctx.Store.GetUserBadges(1)
	if err != nil {
		t.Fatalf("failed to get badges: %v", err)
	}
	if len(earned) != 1 || earned[0].BadgeID != badges.BadgeFirstStep {
		t.Errorf("expected first-step badge to be copied, got %+v", earned)
	}
	if !earned[0].EarnedAt.Equal(testNow) {
		t.Errorf("expected earned time %v, got %v", testNow, earned[0].EarnedAt.In(time.UTC))
	}
}
