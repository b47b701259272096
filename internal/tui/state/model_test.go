package state

import (
	"reflect"
	"testing"

	"github.com/julianstephens/habitual/internal/models"
)

func TestHabitFormModel_ToHabit(t *testing.T) {
	tests := []struct {
		name     string
		form     HabitFormModel
		wantDays []int
		wantErr  bool
	}{
		{
			name: "daily ignores days",
			form: HabitFormModel{Name: " Read ", Category: models.CategoryLearning, Frequency: models.FrequencyDaily, Days: "mon"},
		},
		{
			name:     "weekly parses days",
			form:     HabitFormModel{Name: "Gym", Category: models.CategoryFitness, Frequency: models.FrequencyWeekly, Days: "fri,mon"},
			wantDays: []int{1, 5},
		},
		{
			name:    "weekly with bad day",
			form:    HabitFormModel{Name: "Gym", Category: models.CategoryFitness, Frequency: models.FrequencyWeekly, Days: "someday"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := tt.form.ToHabit(7)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToHabit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if h.UserID != 7 {
				t.Errorf("UserID = %d, want 7", h.UserID)
			}
			if h.Name != "Read" && h.Name != "Gym" {
				t.Errorf("Name = %q, want trimmed name", h.Name)
			}
			if !reflect.DeepEqual(h.Frequency.TargetDays, tt.wantDays) {
				t.Errorf("TargetDays = %v, want %v", h.Frequency.TargetDays, tt.wantDays)
			}
		})
	}
}

func TestFormValidators(t *testing.T) {
	if err := ValidateHabitName("   "); err == nil {
		t.Error("expected blank name to be rejected")
	}
	if err := ValidateHabitName("Walk"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateWeekdays(""); err == nil {
		t.Error("expected empty day list to be rejected")
	}
	if err := ValidateWeekdays("mon,wed"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
