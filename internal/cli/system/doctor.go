package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

type pinger interface {
	Ping() error
}

type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type healthCheck struct {
	name    string
	needsDB bool
	run     func(ctx *cli.Context) error
}

var healthChecks = []healthCheck{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Badge catalog", needsDB: true, run: checkBadgeCatalog},
	{name: "Habit validation", needsDB: true, run: checkHabits},
	{name: "Completion dates", needsDB: true, run: checkCompletionDates},
	{name: "Orphaned completions", needsDB: true, run: checkOrphanedCompletions},
	{name: "Clock/timezone", run: checkClockTimezone},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, check := range healthChecks {
		if check.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", check.name)
			continue
		}
		if err := check.run(ctx); err != nil {
			ctx.Printf("❌ %s: FAIL\n", check.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			continue
		}
		ctx.Printf("✓ %s: OK\n", check.name)
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if p, ok := ctx.Store.(pinger); ok {
		if err := p.Ping(); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return err
	}
	if current == 0 {
		return errors.New("no schema version recorded, run 'habitual init'")
	}
	if current > latest {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("%d pending migration(s), run 'habitual migrate'", latest-current)
	}
	return nil
}

func checkBadgeCatalog(ctx *cli.Context) error {
	defs, err := ctx.Store.GetBadges()
	if err != nil {
		return fmt.Errorf("failed to load badges: %w", err)
	}
	if len(defs) == 0 {
		return errors.New("no badges defined, run 'habitual init'")
	}
	result := validation.New().ValidateBadgeDefinitions(defs)
	if result.HasProblems() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkHabits(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(ctx.UserID(), false)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	v := validation.New()
	var problems []string
	for _, h := range habits {
		result := v.ValidateHabit(h)
		for _, p := range result.Problems {
			problems = append(problems, fmt.Sprintf("habit %d (%s): %s", h.ID, h.Name, p.Description))
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "\n   "))
	}
	return nil
}

// checkCompletionDates only inspects SQLite, where days are free-form TEXT.
// PostgreSQL stores them as DATE.
func checkCompletionDates(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil
	}
	var count int
	err := store.GetDB().QueryRow(
		`SELECT COUNT(*) FROM completions WHERE day NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'`,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to query completions: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("found %d completion(s) with malformed day (expected YYYY-MM-DD)", count)
	}
	return nil
}

func checkOrphanedCompletions(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil
	}
	var count int
	err := store.GetDB().QueryRow(
		`SELECT COUNT(*) FROM completions c LEFT JOIN habits h ON h.id = c.habit_id WHERE h.id IS NULL`,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to query completions: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("found %d completion(s) referencing missing habits", count)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now, err := utils.NowInTimezone(ctx.Config.Timezone)
	if err != nil {
		return err
	}
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}
