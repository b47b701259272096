package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/utils"
)

var testNow = time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)

// setupTestContext returns a context over an uninitialised SQLite store in a
// temp dir, its database path and the buffer that receives output.
func setupTestContext(t *testing.T) (*cli.Context, string, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { _ = store.Close() })

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:   store,
		Service: service.New(store, service.WithClock(utils.FixedClock{Time: testNow})),
		Config: config.Config{
			Database: dbPath,
			UserID:   1,
			Timezone: "UTC",
			HTTPAddr: "127.0.0.1:0",
			Notify:   true,
		},
		Out: out,
	}
	return ctx, dbPath, out
}

// setupInitializedContext is setupTestContext with the schema in place.
func setupInitializedContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx, _, out := setupTestContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	return ctx, out
}

func testHabit(name string) models.Habit {
	return models.Habit{
		UserID:    1,
		Name:      name,
		Category:  models.CategoryHealth,
		Frequency: models.Frequency{Type: models.FrequencyDaily},
		StartAt:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}
