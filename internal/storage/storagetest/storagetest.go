// Package storagetest holds behaviour tests shared by every storage.Provider
// implementation.
package storagetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/badges"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// Factory returns an initialised, empty provider. The suite closes it.
type Factory func(t *testing.T) storage.Provider

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newHabit(userID int64, name string, category models.HabitCategory) models.Habit {
	return models.Habit{
		UserID:    userID,
		Name:      name,
		Category:  category,
		Frequency: models.Frequency{Type: models.FrequencyDaily},
		StartAt:   day("2024-01-01"),
	}
}

// Run exercises the full Provider contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Habits", func(t *testing.T) { testHabits(t, newStore(t)) })
	t.Run("SoftDelete", func(t *testing.T) { testSoftDelete(t, newStore(t)) })
	t.Run("Pause", func(t *testing.T) { testPause(t, newStore(t)) })
	t.Run("Completions", func(t *testing.T) { testCompletions(t, newStore(t)) })
	t.Run("CompletionsForUser", func(t *testing.T) { testCompletionsForUser(t, newStore(t)) })
	t.Run("Badges", func(t *testing.T) { testBadges(t, newStore(t)) })
}

func testHabits(t *testing.T, store storage.Provider) {
	defer store.Close()

	h := newHabit(1, "Stretch", models.CategoryFitness)
	h.Description = "ten minutes"
	h.Frequency = models.Frequency{Type: models.FrequencyWeekly, TargetDays: []int{1, 3, 5}}
	end := day("2024-06-30")
	h.EndAt = &end

	id, err := store.AddHabit(h)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := store.GetHabit(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, "Stretch", got.Name)
	assert.Equal(t, "ten minutes", got.Description)
	assert.Equal(t, models.CategoryFitness, got.Category)
	assert.Equal(t, models.FrequencyWeekly, got.Frequency.Type)
	assert.Equal(t, []int{1, 3, 5}, got.Frequency.TargetDays)
	assert.Equal(t, "2024-01-01", got.StartAt.Format("2006-01-02"))
	require.NotNil(t, got.EndAt)
	assert.Equal(t, "2024-06-30", got.EndAt.Format("2006-01-02"))
	assert.Nil(t, got.PauseUntil)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = store.AddHabit(newHabit(1, "Stretch", models.CategoryHealth))
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	// Names are unique per user only.
	_, err = store.AddHabit(newHabit(2, "Stretch", models.CategoryHealth))
	require.NoError(t, err)

	byName, err := store.GetHabitByName(1, "Stretch")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)

	_, err = store.GetHabitByName(1, "Nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetHabit(id + 1000)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got.Name = "Stretch well"
	got.Frequency = models.Frequency{Type: models.FrequencyDaily}
	require.NoError(t, store.UpdateHabit(got))

	updated, err := store.GetHabit(id)
	require.NoError(t, err)
	assert.Equal(t, "Stretch well", updated.Name)
	assert.Empty(t, updated.Frequency.TargetDays)

	missing := got
	missing.ID = id + 1000
	assert.ErrorIs(t, store.UpdateHabit(missing), storage.ErrNotFound)

	habits, err := store.GetAllHabits(1, false)
	require.NoError(t, err)
	assert.Len(t, habits, 1)
}

func testSoftDelete(t *testing.T, store storage.Provider) {
	defer store.Close()

	id, err := store.AddHabit(newHabit(1, "Read", models.CategoryLearning))
	require.NoError(t, err)
	require.NoError(t, store.AddCompletion(models.Completion{HabitID: id, Day: "2024-01-02"}))

	require.NoError(t, store.DeleteHabit(id))
	assert.ErrorIs(t, store.DeleteHabit(id), storage.ErrNotFound)

	_, err = store.GetHabit(id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	active, err := store.GetAllHabits(1, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := store.GetAllHabits(1, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsDeleted())

	// Completions survive a soft delete.
	completions, err := store.GetCompletionsForHabit(id)
	require.NoError(t, err)
	assert.Len(t, completions, 1)

	// The name is free again once the habit is deleted.
	_, err = store.AddHabit(newHabit(1, "Read", models.CategoryLearning))
	require.NoError(t, err)

	require.NoError(t, store.RestoreHabit(id))
	assert.ErrorIs(t, store.RestoreHabit(id), storage.ErrNotFound)

	restored, err := store.GetHabit(id)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())
}

func testPause(t *testing.T, store storage.Provider) {
	defer store.Close()

	id, err := store.AddHabit(newHabit(1, "Meditate", models.CategoryMindfulness))
	require.NoError(t, err)

	until := day("2024-02-10")
	require.NoError(t, store.PauseHabit(id, &until))

	h, err := store.GetHabit(id)
	require.NoError(t, err)
	require.NotNil(t, h.PauseUntil)
	assert.Equal(t, "2024-02-10", h.PauseUntil.Format("2006-01-02"))

	require.NoError(t, store.PauseHabit(id, nil))
	h, err = store.GetHabit(id)
	require.NoError(t, err)
	assert.Nil(t, h.PauseUntil)

	assert.ErrorIs(t, store.PauseHabit(id+1000, &until), storage.ErrNotFound)
}

func testCompletions(t *testing.T, store storage.Provider) {
	defer store.Close()

	id, err := store.AddHabit(newHabit(1, "Walk", models.CategoryHealth))
	require.NoError(t, err)

	mood := 4
	note := "sunny"
	completedAt := time.Date(2024, 1, 3, 18, 30, 0, 0, time.UTC)
	require.NoError(t, store.AddCompletion(models.Completion{
		HabitID: id, Day: "2024-01-03", Mood: &mood, Note: &note, CompletedAt: completedAt,
	}))
	require.NoError(t, store.AddCompletion(models.Completion{HabitID: id, Day: "2024-01-02"}))

	err = store.AddCompletion(models.Completion{HabitID: id, Day: "2024-01-03"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	c, err := store.GetCompletion(id, "2024-01-03")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, models.CompletionCompleted, c.Status)
	require.NotNil(t, c.Mood)
	assert.Equal(t, 4, *c.Mood)
	require.NotNil(t, c.Note)
	assert.Equal(t, "sunny", *c.Note)
	assert.True(t, completedAt.Equal(c.CompletedAt), "completedAt = %v", c.CompletedAt)

	all, err := store.GetCompletionsForHabit(id)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2024-01-02", all[0].Day)
	assert.Nil(t, all[0].Mood)

	require.NoError(t, store.DeleteCompletion(id, "2024-01-03"))
	_, err = store.GetCompletion(id, "2024-01-03")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.DeleteCompletion(id, "2024-01-03"), storage.ErrNotFound)

	// Hard delete frees the slot for a fresh completion.
	require.NoError(t, store.AddCompletion(models.Completion{HabitID: id, Day: "2024-01-03"}))
}

func testCompletionsForUser(t *testing.T, store storage.Provider) {
	defer store.Close()

	a, err := store.AddHabit(newHabit(1, "A", models.CategoryHealth))
	require.NoError(t, err)
	b, err := store.AddHabit(newHabit(1, "B", models.CategorySocial))
	require.NoError(t, err)
	other, err := store.AddHabit(newHabit(2, "C", models.CategorySocial))
	require.NoError(t, err)

	for _, c := range []models.Completion{
		{HabitID: a, Day: "2024-01-01"},
		{HabitID: a, Day: "2024-01-05"},
		{HabitID: b, Day: "2024-01-03"},
		{HabitID: other, Day: "2024-01-03"},
	} {
		require.NoError(t, store.AddCompletion(c))
	}

	all, err := store.GetCompletionsForUser(1, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	window, err := store.GetCompletionsForUser(1, "2024-01-02", "2024-01-05")
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, "2024-01-03", window[0].Day)
	assert.Equal(t, "2024-01-05", window[1].Day)
}

func testBadges(t *testing.T, store storage.Provider) {
	defer store.Close()

	defs, err := store.GetBadges()
	require.NoError(t, err)
	catalog := badges.DefaultCatalog()
	require.Len(t, defs, len(catalog))
	for i := range catalog {
		assert.Equal(t, catalog[i].ID, defs[i].ID)
	}

	// Re-seeding updates in place.
	catalog[0].Name = "First Step!"
	require.NoError(t, store.SeedBadges(catalog))
	defs, err = store.GetBadges()
	require.NoError(t, err)
	require.Len(t, defs, len(catalog))
	assert.Equal(t, "First Step!", defs[0].Name)

	earnedAt := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	inserted, err := store.AwardBadges(1, []string{badges.BadgeFirstStep, badges.BadgeThreeDayStreak}, earnedAt)
	require.NoError(t, err)
	assert.Equal(t, []string{badges.BadgeFirstStep, badges.BadgeThreeDayStreak}, inserted)

	inserted, err = store.AwardBadges(1, []string{badges.BadgeFirstStep, badges.BadgeWeekWarrior}, earnedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{badges.BadgeWeekWarrior}, inserted)

	inserted, err = store.AwardBadges(1, nil, earnedAt)
	require.NoError(t, err)
	assert.Empty(t, inserted)

	owned, err := store.GetUserBadges(1)
	require.NoError(t, err)
	require.Len(t, owned, 3)
	for _, ub := range owned {
		if ub.BadgeID == badges.BadgeFirstStep {
			assert.True(t, earnedAt.Equal(ub.EarnedAt), "first award time must be kept")
		}
	}

	none, err := store.GetUserBadges(2)
	require.NoError(t, err)
	assert.Empty(t, none)
}
