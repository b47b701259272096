// Package service ties storage to the analytics engine: it loads a user's
// habits, runs the stats, history and badge code against an injected clock,
// and persists newly earned badges.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/julianstephens/habitual/internal/badges"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/history"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

var (
	// ErrRangeTooLarge is returned by History for spans over MaxHistoryDays.
	ErrRangeTooLarge = fmt.Errorf("%w: range exceeds %d days", validation.ErrInvalidDateRange, constants.MaxHistoryDays)
	// ErrFutureDay is returned when marking a day after today.
	ErrFutureDay = errors.New("cannot record a completion for a future day")
)

// BadgeNotifier is told about badges the moment they are awarded.
type BadgeNotifier interface {
	NotifyBadges(ctx context.Context, defs []models.BadgeDefinition) error
}

type Service struct {
	store     storage.Provider
	clock     utils.Clock
	validator *validation.Validator
	notifier  BadgeNotifier

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

type Option func(*Service)

// WithClock sets the source of "now". Defaults to the system clock in the
// local timezone.
func WithClock(c utils.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithNotifier enables badge notifications.
func WithNotifier(n BadgeNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:     store,
		clock:     utils.SystemClock{Location: time.Local},
		validator: validation.New(),
		locks:     make(map[int64]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// Today returns the current day key in the clock's location.
func (s *Service) Today() string {
	return utils.DayKey(s.clock.Now())
}

// userLock serialises badge evaluation per user so two concurrent checks
// cannot both decide to award the same badge.
func (s *Service) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// CreateHabit validates and stores a new habit, returning it with its id.
func (s *Service) CreateHabit(ctx context.Context, h models.Habit) (models.Habit, error) {
	if err := ctx.Err(); err != nil {
		return models.Habit{}, err
	}
	if h.StartAt.IsZero() {
		h.StartAt = utils.CivilDay(s.clock.Now())
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = s.clock.Now()
	}

	result := s.validator.ValidateHabit(h)
	if err := result.Err(); err != nil {
		return models.Habit{}, err
	}

	id, err := s.store.AddHabit(h)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit: %w", err)
	}
	h.ID = id
	logger.Info("Habit created", "user", h.UserID, "habit", id, "name", h.Name)
	return h, nil
}

// ListHabits returns the user's habits in creation order.
func (s *Service) ListHabits(ctx context.Context, userID int64, includeDeleted bool) ([]models.Habit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetAllHabits(userID, includeDeleted)
}

// GetHabit loads a habit, hiding habits that belong to other users.
func (s *Service) GetHabit(ctx context.Context, userID, habitID int64) (models.Habit, error) {
	if err := ctx.Err(); err != nil {
		return models.Habit{}, err
	}
	h, err := s.store.GetHabit(habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if h.UserID != userID {
		return models.Habit{}, fmt.Errorf("habit %d: %w", habitID, storage.ErrNotFound)
	}
	return h, nil
}

// ResolveHabit finds a habit by numeric id or, failing that, by name.
func (s *Service) ResolveHabit(ctx context.Context, userID int64, ref string) (models.Habit, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		h, err := s.GetHabit(ctx, userID, id)
		if err == nil || !errors.Is(err, storage.ErrNotFound) {
			return h, err
		}
	}
	return s.store.GetHabitByName(userID, ref)
}

// PauseHabit pauses a habit through until (inclusive); nil resumes it.
func (s *Service) PauseHabit(ctx context.Context, userID, habitID int64, until *time.Time) error {
	if _, err := s.GetHabit(ctx, userID, habitID); err != nil {
		return err
	}
	return s.store.PauseHabit(habitID, until)
}

// DeleteHabit soft-deletes a habit. Its completions are kept.
func (s *Service) DeleteHabit(ctx context.Context, userID, habitID int64) error {
	if _, err := s.GetHabit(ctx, userID, habitID); err != nil {
		return err
	}
	return s.store.DeleteHabit(habitID)
}

// RestoreHabit undoes DeleteHabit unless a live habit has taken its name.
func (s *Service) RestoreHabit(ctx context.Context, userID, habitID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	all, err := s.store.GetAllHabits(userID, true)
	if err != nil {
		return err
	}
	for _, h := range all {
		if h.ID != habitID {
			continue
		}
		if _, err := s.store.GetHabitByName(userID, h.Name); err == nil {
			return fmt.Errorf("habit %q: %w", h.Name, storage.ErrAlreadyExists)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return s.store.RestoreHabit(habitID)
	}
	return fmt.Errorf("habit %d: %w", habitID, storage.ErrNotFound)
}

// loadHabits returns the user's live habits with completions attached.
func (s *Service) loadHabits(userID int64) ([]models.Habit, error) {
	habits, err := s.store.GetAllHabits(userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	completions, err := s.store.GetCompletionsForUser(userID, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}

	byHabit := make(map[int64][]models.Completion, len(habits))
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	for i := range habits {
		habits[i].Completions = byHabit[habits[i].ID]
	}
	return habits, nil
}

// HabitStats derives streaks and completion rate for one habit as of now.
func (s *Service) HabitStats(ctx context.Context, userID, habitID int64) (models.DerivedHabitStats, error) {
	h, err := s.GetHabit(ctx, userID, habitID)
	if err != nil {
		return models.DerivedHabitStats{}, err
	}
	completions, err := s.store.GetCompletionsForHabit(habitID)
	if err != nil {
		return models.DerivedHabitStats{}, fmt.Errorf("failed to load completions: %w", err)
	}
	return stats.CalculateStats(completions, h.StartAt, s.clock.Now()), nil
}

// History summarises every day from startDay to endDay inclusive.
func (s *Service) History(ctx context.Context, userID int64, startDay, endDay string) ([]models.DailySummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := s.validator.ValidateDateRange(startDay, endDay)
	if err := result.Err(); err != nil {
		start, errStart := utils.ParseDay(startDay)
		end, errEnd := utils.ParseDay(endDay)
		if errStart == nil && errEnd == nil && utils.DaysBetween(start, end)+1 > constants.MaxHistoryDays {
			return nil, ErrRangeTooLarge
		}
		return nil, err
	}

	start, _ := utils.ParseDay(startDay)
	end, _ := utils.ParseDay(endDay)

	habits, err := s.loadHabits(userID)
	if err != nil {
		return nil, err
	}
	return history.BuildHistory(habits, start, end), nil
}

// RecentHistory returns the last n days ending today.
func (s *Service) RecentHistory(ctx context.Context, userID int64, days int) ([]models.DailySummary, error) {
	if days < 1 {
		days = constants.DefaultHistoryDays
	}
	today := utils.CivilDay(s.clock.Now())
	start := utils.AddDays(today, -(days - 1))
	return s.History(ctx, userID, utils.DayKey(start), utils.DayKey(today))
}

// ToggleResult reports what ToggleCompletion did.
type ToggleResult struct {
	Completed  bool                     `json:"completed"`
	Completion *models.Completion       `json:"completion,omitempty"`
	NewBadges  []models.BadgeDefinition `json:"newBadges"`
}

// ToggleCompletion marks a habit done on day (today when empty), or removes
// the completion if one already exists. Badges are evaluated after a mark.
func (s *Service) ToggleCompletion(ctx context.Context, userID, habitID int64, day string, mood *int, note *string) (ToggleResult, error) {
	if _, err := s.GetHabit(ctx, userID, habitID); err != nil {
		return ToggleResult{}, err
	}

	now := s.clock.Now()
	if day == "" {
		day = utils.DayKey(now)
	}
	d, err := utils.ParseDay(day)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("%w: invalid day %q", validation.ErrInvalidCompletion, day)
	}
	if d.After(utils.CivilDay(now)) {
		return ToggleResult{}, ErrFutureDay
	}

	if _, err := s.store.GetCompletion(habitID, day); err == nil {
		if err := s.store.DeleteCompletion(habitID, day); err != nil {
			return ToggleResult{}, fmt.Errorf("failed to remove completion: %w", err)
		}
		logger.Debug("Completion removed", "habit", habitID, "day", day)
		return ToggleResult{Completed: false, NewBadges: []models.BadgeDefinition{}}, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return ToggleResult{}, err
	}

	c := models.Completion{
		HabitID:     habitID,
		Day:         day,
		Status:      models.CompletionCompleted,
		Mood:        mood,
		Note:        note,
		CompletedAt: now,
	}
	result := s.validator.ValidateCompletion(c)
	if err := result.Err(); err != nil {
		return ToggleResult{}, err
	}
	if err := s.store.AddCompletion(c); err != nil {
		return ToggleResult{}, fmt.Errorf("failed to add completion: %w", err)
	}
	stored, err := s.store.GetCompletion(habitID, day)
	if err != nil {
		return ToggleResult{}, err
	}
	logger.Debug("Completion added", "habit", habitID, "day", day)

	earned, err := s.EvaluateBadges(ctx, userID)
	if err != nil {
		// The completion is saved; a failed check is retried on the next one.
		logger.Warn("Badge evaluation failed", "user", userID, "error", err)
		earned = []models.BadgeDefinition{}
	}
	return ToggleResult{Completed: true, Completion: &stored, NewBadges: earned}, nil
}

// EvaluateBadges awards every badge the user now qualifies for and returns
// the definitions of those newly awarded.
func (s *Service) EvaluateBadges(ctx context.Context, userID int64) ([]models.BadgeDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	defs, err := s.store.GetBadges()
	if err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	owned, err := s.store.GetUserBadges(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user badges: %w", err)
	}
	habits, err := s.loadHabits(userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	candidates := badges.CheckAndAwardBadges(defs, owned, habits, now)
	if len(candidates) == 0 {
		return []models.BadgeDefinition{}, nil
	}

	inserted, err := s.store.AwardBadges(userID, candidates, now)
	if err != nil {
		return nil, fmt.Errorf("failed to award badges: %w", err)
	}

	byID := make(map[string]models.BadgeDefinition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	earned := make([]models.BadgeDefinition, 0, len(inserted))
	for _, id := range inserted {
		earned = append(earned, byID[id])
		logger.Info("Badge awarded", "user", userID, "badge", id)
	}

	s.notify(ctx, earned)
	return earned, nil
}

func (s *Service) notify(ctx context.Context, earned []models.BadgeDefinition) {
	if s.notifier == nil || len(earned) == 0 {
		return
	}
	if err := s.notifier.NotifyBadges(ctx, earned); err != nil {
		if errors.Is(err, notifier.ErrTrayNotRunning) {
			logger.Debug("Skipping badge notification", "reason", err)
			return
		}
		logger.Warn("Badge notification failed", "error", err)
	}
}

// BadgeProgress lists every badge with the user's progress toward it.
func (s *Service) BadgeProgress(ctx context.Context, userID int64) ([]models.BadgeProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defs, err := s.store.GetBadges()
	if err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	owned, err := s.store.GetUserBadges(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user badges: %w", err)
	}
	habits, err := s.loadHabits(userID)
	if err != nil {
		return nil, err
	}
	return badges.Evaluate(defs, owned, habits, s.clock.Now()), nil
}

// HabitToday is one row of the today overview.
type HabitToday struct {
	Habit     models.Habit             `json:"habit"`
	Completed bool                     `json:"completed"`
	Stats     models.DerivedHabitStats `json:"stats"`
}

// Overview is what the dashboard shows for the current day.
type Overview struct {
	Date    string              `json:"date"`
	Habits  []HabitToday        `json:"habits"`
	Summary models.DailySummary `json:"summary"`
}

// TodayOverview lists the habits active today with their completion state
// and stats.
func (s *Service) TodayOverview(ctx context.Context, userID int64) (Overview, error) {
	if err := ctx.Err(); err != nil {
		return Overview{}, err
	}
	habits, err := s.loadHabits(userID)
	if err != nil {
		return Overview{}, err
	}

	now := s.clock.Now()
	today := utils.CivilDay(now)
	key := utils.DayKey(today)

	overview := Overview{Date: key, Habits: []HabitToday{}}
	for _, h := range utils.ActiveHabitsOnDate(habits, today) {
		done := false
		for _, c := range h.Completions {
			if c.Day == key && c.IsCompleted() {
				done = true
				break
			}
		}
		overview.Habits = append(overview.Habits, HabitToday{
			Habit:     h,
			Completed: done,
			Stats:     stats.CalculateStats(h.Completions, h.StartAt, now),
		})
	}

	if days := history.BuildHistory(habits, today, today); len(days) == 1 {
		overview.Summary = days[0]
	}
	return overview, nil
}
