package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

func validHabit() models.Habit {
	return models.Habit{
		ID:        1,
		UserID:    1,
		Name:      "Morning run",
		Category:  models.CategoryFitness,
		Frequency: models.Frequency{Type: models.FrequencyDaily},
		StartAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func hasProblem(result Result, pt ProblemType) bool {
	for _, p := range result.Problems {
		if p.Type == pt {
			return true
		}
	}
	return false
}

func TestValidateHabit_Valid(t *testing.T) {
	result := New().ValidateHabit(validHabit())
	if result.HasProblems() {
		t.Errorf("expected no problems, got:\n%s", result.FormatReport())
	}
	if result.Err() != nil {
		t.Errorf("Err() = %v, want nil", result.Err())
	}
}

func TestValidateHabit_Frequency(t *testing.T) {
	tests := []struct {
		name      string
		frequency models.Frequency
		want      ProblemType
		ok        bool
	}{
		{name: "weekly with days", frequency: models.Frequency{Type: models.FrequencyWeekly, TargetDays: []int{1, 3, 5}}, ok: true},
		{name: "weekly without days", frequency: models.Frequency{Type: models.FrequencyWeekly}, want: ProblemInvalidTargetDays},
		{name: "weekly with duplicate day", frequency: models.Frequency{Type: models.FrequencyWeekly, TargetDays: []int{1, 1}}, want: ProblemInvalidTargetDays},
		{name: "weekly with day out of range", frequency: models.Frequency{Type: models.FrequencyWeekly, TargetDays: []int{7}}, want: ProblemInvalidTargetDays},
		{name: "daily with days", frequency: models.Frequency{Type: models.FrequencyDaily, TargetDays: []int{2}}, want: ProblemInvalidTargetDays},
		{name: "unknown type", frequency: models.Frequency{Type: "fortnightly"}, want: ProblemInvalidFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHabit()
			h.Frequency = tt.frequency
			result := New().ValidateHabit(h)

			if tt.ok {
				if result.HasProblems() {
					t.Errorf("expected no problems, got:\n%s", result.FormatReport())
				}
				return
			}
			if !hasProblem(result, tt.want) {
				t.Errorf("expected %s problem, got:\n%s", tt.want, result.FormatReport())
			}
			if !errors.Is(result.Err(), ErrInvalidHabit) {
				t.Errorf("Err() = %v, want ErrInvalidHabit", result.Err())
			}
		})
	}
}

func TestValidateHabit_Fields(t *testing.T) {
	h := validHabit()
	h.Name = "  "
	h.Category = "hobby"
	end := h.StartAt.AddDate(0, 0, -1)
	h.EndAt = &end

	result := New().ValidateHabit(h)
	for _, want := range []ProblemType{ProblemMissingField, ProblemInvalidCategory, ProblemInvalidDateRange} {
		if !hasProblem(result, want) {
			t.Errorf("expected %s problem, got:\n%s", want, result.FormatReport())
		}
	}

	h = validHabit()
	h.Name = strings.Repeat("x", 101)
	if !hasProblem(New().ValidateHabit(h), ProblemOutOfRange) {
		t.Error("expected long name to be rejected")
	}
}

func TestValidateCompletion(t *testing.T) {
	mood := func(v int) *int { return &v }
	note := func(s string) *string { return &s }

	tests := []struct {
		name       string
		completion models.Completion
		wantOK     bool
	}{
		{
			name:       "minimal",
			completion: models.Completion{HabitID: 1, Day: "2024-01-05", Status: models.CompletionCompleted},
			wantOK:     true,
		},
		{
			name:       "with mood and note",
			completion: models.Completion{HabitID: 1, Day: "2024-01-05", Status: models.CompletionCompleted, Mood: mood(5), Note: note("good")},
			wantOK:     true,
		},
		{
			name:       "mood too high",
			completion: models.Completion{HabitID: 1, Day: "2024-01-05", Status: models.CompletionCompleted, Mood: mood(6)},
		},
		{
			name:       "mood zero",
			completion: models.Completion{HabitID: 1, Day: "2024-01-05", Status: models.CompletionCompleted, Mood: mood(0)},
		},
		{
			name:       "note too long",
			completion: models.Completion{HabitID: 1, Day: "2024-01-05", Status: models.CompletionCompleted, Note: note(strings.Repeat("a", 501))},
		},
		{
			name:       "bad day",
			completion: models.Completion{HabitID: 1, Day: "05/01/2024", Status: models.CompletionCompleted},
		},
		{
			name:       "missing habit",
			completion: models.Completion{Day: "2024-01-05", Status: models.CompletionCompleted},
		},
		{
			name:       "skipped status",
			completion: models.Completion{HabitID: 1, Day: "2024-01-05", Status: "skipped"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateCompletion(tt.completion)
			if result.HasProblems() == tt.wantOK {
				t.Errorf("HasProblems() = %v, want %v:\n%s", result.HasProblems(), !tt.wantOK, result.FormatReport())
			}
			if !tt.wantOK && !errors.Is(result.Err(), ErrInvalidCompletion) {
				t.Errorf("Err() = %v, want ErrInvalidCompletion", result.Err())
			}
		})
	}
}

func TestValidateBadgeDefinitions(t *testing.T) {
	defs := []models.BadgeDefinition{
		{ID: "first-step", Name: "First Step", Rarity: models.RarityCommon, Category: models.BadgeCategoryMilestone},
		{ID: "first-step", Name: "Again", Rarity: models.RarityCommon, Category: models.BadgeCategoryMilestone},
		{ID: "seasonal", Name: "Seasonal", Rarity: "mythic", Category: "seasonal"},
	}

	result := New().ValidateBadgeDefinitions(defs)
	for _, want := range []ProblemType{ProblemDuplicateID, ProblemInvalidCategory, ProblemOutOfRange} {
		if !hasProblem(result, want) {
			t.Errorf("expected %s problem, got:\n%s", want, result.FormatReport())
		}
	}
	if !errors.Is(result.Err(), ErrInvalidBadge) {
		t.Errorf("Err() = %v, want ErrInvalidBadge", result.Err())
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantOK     bool
	}{
		{name: "single day", start: "2024-01-01", end: "2024-01-01", wantOK: true},
		{name: "full leap year", start: "2024-01-01", end: "2024-12-31", wantOK: true},
		{name: "too long", start: "2024-01-01", end: "2025-01-01"},
		{name: "reversed", start: "2024-01-05", end: "2024-01-01"},
		{name: "unparseable", start: "yesterday", end: "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateDateRange(tt.start, tt.end)
			if result.HasProblems() == tt.wantOK {
				t.Errorf("HasProblems() = %v, want %v:\n%s", result.HasProblems(), !tt.wantOK, result.FormatReport())
			}
		})
	}
}

func TestFormatReport_NoProblems(t *testing.T) {
	result := Result{}
	if got := result.FormatReport(); got != "No problems detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}
