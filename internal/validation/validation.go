package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	ErrInvalidHabit      = errors.New("invalid habit")
	ErrInvalidCompletion = errors.New("invalid completion")
	ErrInvalidBadge      = errors.New("invalid badge definition")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

// ProblemType represents the kind of validation problem
type ProblemType string

const (
	ProblemMissingField      ProblemType = "missing_field"
	ProblemInvalidCategory   ProblemType = "invalid_category"
	ProblemInvalidFrequency  ProblemType = "invalid_frequency"
	ProblemInvalidTargetDays ProblemType = "invalid_target_days"
	ProblemInvalidDateRange  ProblemType = "invalid_date_range"
	ProblemInvalidDate       ProblemType = "invalid_date"
	ProblemOutOfRange        ProblemType = "out_of_range"
	ProblemDuplicateID       ProblemType = "duplicate_id"
)

// Problem is a single detected issue
type Problem struct {
	Type        ProblemType
	Field       string
	Description string
}

// Result contains all detected problems
type Result struct {
	Problems []Problem
	kind     error
}

// HasProblems returns true if there are any problems
func (r *Result) HasProblems() bool {
	return len(r.Problems) > 0
}

// FormatReport returns a human-readable report of all problems
func (r *Result) FormatReport() string {
	if !r.HasProblems() {
		return "No problems detected."
	}

	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, p := range r.Problems {
		fmt.Fprintf(&b, "- %s\n", p.Description)
	}
	return b.String()
}

// Err collapses the result into a single error wrapping the sentinel for the
// validated kind, or nil when there are no problems.
func (r *Result) Err() error {
	if !r.HasProblems() {
		return nil
	}
	descriptions := make([]string, 0, len(r.Problems))
	for _, p := range r.Problems {
		descriptions = append(descriptions, p.Description)
	}
	return fmt.Errorf("%w: %s", r.kind, strings.Join(descriptions, "; "))
}

func (r *Result) add(t ProblemType, field, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{
		Type:        t,
		Field:       field,
		Description: fmt.Sprintf(format, args...),
	})
}

var validate = validator.New()

// habitInput mirrors the tag-checkable part of a habit.
type habitInput struct {
	Name   string `validate:"required,max=100"`
	UserID int64  `validate:"gt=0"`
}

type completionInput struct {
	Day  string  `validate:"required,datetime=2006-01-02"`
	Mood *int    `validate:"omitempty,min=1,max=5"`
	Note *string `validate:"omitempty,max=500"`
}

type badgeInput struct {
	ID   string `validate:"required"`
	Name string `validate:"required"`
}

// Validator validates habits, completions and badge definitions at the
// storage and API boundary.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabit checks a habit before it is written.
func (v *Validator) ValidateHabit(h models.Habit) Result {
	result := Result{kind: ErrInvalidHabit}

	in := habitInput{Name: strings.TrimSpace(h.Name), UserID: h.UserID}
	tagProblems(&result, validate.Struct(in))

	if !h.Category.Valid() {
		result.add(ProblemInvalidCategory, "category", "Habit %q has unknown category %q", h.Name, h.Category)
	}

	validateFrequency(&result, h)

	if h.StartAt.IsZero() {
		result.add(ProblemMissingField, "startAt", "Habit %q has no start date", h.Name)
	}
	if h.EndAt != nil && utils.CivilDay(*h.EndAt).Before(utils.CivilDay(h.StartAt)) {
		result.add(ProblemInvalidDateRange, "endAt", "Habit %q ends (%s) before it starts (%s)",
			h.Name, utils.DayKey(*h.EndAt), utils.DayKey(h.StartAt))
	}

	return result
}

func validateFrequency(result *Result, h models.Habit) {
	switch h.Frequency.Type {
	case models.FrequencyDaily:
		if len(h.Frequency.TargetDays) > 0 {
			result.add(ProblemInvalidTargetDays, "frequency.targetDays", "Daily habit %q must not have target days", h.Name)
		}
	case models.FrequencyWeekly:
		if len(h.Frequency.TargetDays) == 0 {
			result.add(ProblemInvalidTargetDays, "frequency.targetDays", "Weekly habit %q needs at least one target day", h.Name)
			return
		}
		seen := make(map[int]bool)
		for _, d := range h.Frequency.TargetDays {
			if d < 0 || d > 6 {
				result.add(ProblemInvalidTargetDays, "frequency.targetDays", "Weekly habit %q has target day %d outside 0-6", h.Name, d)
				continue
			}
			if seen[d] {
				result.add(ProblemInvalidTargetDays, "frequency.targetDays", "Weekly habit %q repeats target day %d", h.Name, d)
			}
			seen[d] = true
		}
	default:
		result.add(ProblemInvalidFrequency, "frequency.type", "Habit %q has unknown frequency %q", h.Name, h.Frequency.Type)
	}
}

// ValidateCompletion checks a completion before it is written.
func (v *Validator) ValidateCompletion(c models.Completion) Result {
	result := Result{kind: ErrInvalidCompletion}

	in := completionInput{Day: c.Day, Mood: c.Mood, Note: c.Note}
	tagProblems(&result, validate.Struct(in))

	if c.HabitID <= 0 {
		result.add(ProblemMissingField, "habitId", "Completion has no habit id")
	}
	if c.Status != models.CompletionCompleted {
		result.add(ProblemOutOfRange, "status", "Completion has unsupported status %q", c.Status)
	}
	return result
}

// ValidateBadgeDefinitions checks externally supplied badge definitions.
// Unknown categories are rejected here rather than silently evaluating to
// "not earned" later.
func (v *Validator) ValidateBadgeDefinitions(defs []models.BadgeDefinition) Result {
	result := Result{kind: ErrInvalidBadge}

	seen := make(map[string]bool)
	for _, d := range defs {
		tagProblems(&result, validate.Struct(badgeInput{ID: d.ID, Name: d.Name}))
		if seen[d.ID] {
			result.add(ProblemDuplicateID, "id", "Badge id %q is defined more than once", d.ID)
		}
		seen[d.ID] = true
		if !d.Category.Valid() {
			result.add(ProblemInvalidCategory, "category", "Badge %q has unknown category %q", d.ID, d.Category)
		}
		if d.Rarity.Rank() < 0 {
			result.add(ProblemOutOfRange, "rarity", "Badge %q has unknown rarity %q", d.ID, d.Rarity)
		}
	}
	return result
}

// ValidateDateRange checks a history range against the maximum span.
func (v *Validator) ValidateDateRange(startDay, endDay string) Result {
	result := Result{kind: ErrInvalidDateRange}

	start, err := utils.ParseDay(startDay)
	if err != nil {
		result.add(ProblemInvalidDate, "start", "Invalid start date %q (expected YYYY-MM-DD)", startDay)
	}
	end, err2 := utils.ParseDay(endDay)
	if err2 != nil {
		result.add(ProblemInvalidDate, "end", "Invalid end date %q (expected YYYY-MM-DD)", endDay)
	}
	if err != nil || err2 != nil {
		return result
	}

	span := utils.DaysBetween(start, end) + 1
	if span < 1 {
		result.add(ProblemInvalidDateRange, "end", "End date %s is before start date %s", endDay, startDay)
	} else if span > constants.MaxHistoryDays {
		result.add(ProblemInvalidDateRange, "end", "Date range spans %d days (max %d)", span, constants.MaxHistoryDays)
	}
	return result
}

func tagProblems(result *Result, err error) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result.add(ProblemMissingField, "", "%v", err)
		return
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required", "gt":
			result.add(ProblemMissingField, field, "Field %s is required", field)
		case "datetime":
			result.add(ProblemInvalidDate, field, "Field %s must be a YYYY-MM-DD date, got %q", field, fe.Value())
		default:
			result.add(ProblemOutOfRange, field, "Field %s failed %s=%s", field, fe.Tag(), fe.Param())
		}
	}
}
