package system

import (
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

func TestDoctorCmd_AllPass(t *testing.T) {
	ctx, out := setupInitializedContext(t)
	if _, err := ctx.Store.AddHabit(testHabit("Read")); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out.String())
	}

	output := out.String()
	for _, check := range healthChecks {
		if !strings.Contains(output, "✓ "+check.name+": OK") {
			t.Errorf("expected %q to pass, got:\n%s", check.name, output)
		}
	}
	if !strings.Contains(output, "All diagnostics passed!") {
		t.Errorf("expected success summary, got:\n%s", output)
	}
}

func TestDoctorCmd_UninitializedDatabase(t *testing.T) {
	ctx, _, out := setupTestContext(t)

	err := (&DoctorCmd{}).Run(ctx)
	if err == nil {
		t.Fatal("expected doctor to fail without a database")
	}

	output := out.String()
	if !strings.Contains(output, "❌ Database reachable: FAIL") {
		t.Errorf("expected reachability failure, got:\n%s", output)
	}
	if !strings.Contains(output, "⊘ Schema version: SKIPPED") {
		t.Errorf("expected dependent checks to be skipped, got:\n%s", output)
	}
	if !strings.Contains(output, "✓ Clock/timezone: OK") {
		t.Errorf("expected clock check to run anyway, got:\n%s", output)
	}
}

func TestDoctorCmd_MalformedCompletionDay(t *testing.T) {
	ctx, out := setupInitializedContext(t)
	id, err := ctx.Store.AddHabit(testHabit("Read"))
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec(`INSERT INTO completions (id, habit_id, day, status, completed_at)
		VALUES ('bad-day', ?, '2024/03/01', 'completed', '2024-03-01T10:00:00Z')`, id); err != nil {
		t.Fatalf("failed to insert completion: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail")
	}
	if !strings.Contains(out.String(), "❌ Completion dates: FAIL") {
		t.Errorf("expected completion date failure, got:\n%s", out.String())
	}
}

func TestDoctorCmd_OrphanedCompletion(t *testing.T) {
	ctx, out := setupInitializedContext(t)

	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec(`PRAGMA foreign_keys = OFF`); err != nil {
		t.Fatalf("failed to disable foreign keys: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO completions (id, habit_id, day, status, completed_at)
		VALUES ('orphan', 999, '2024-03-01', 'completed', '2024-03-01T10:00:00Z')`); err != nil {
		t.Fatalf("failed to insert completion: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail")
	}
	if !strings.Contains(out.String(), "❌ Orphaned completions: FAIL") {
		t.Errorf("expected orphan failure, got:\n%s", out.String())
	}
}

func TestDoctorCmd_InvalidTimezone(t *testing.T) {
	ctx, out := setupInitializedContext(t)
	ctx.Config.Timezone = "Mars/Olympus_Mons"

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail")
	}
	if !strings.Contains(out.String(), "❌ Clock/timezone: FAIL") {
		t.Errorf("expected timezone failure, got:\n%s", out.String())
	}
}
