package badges

import (
	"math"

	"github.com/julianstephens/habitual/internal/models"
)

// Strategy evaluates the badges of one category. Unknown badge ids evaluate
// to not earned with zero progress.
type Strategy interface {
	Earned(badgeID string, s *Snapshot) bool
	Progress(badgeID string, s *Snapshot) int
}

// rule compares a measured quantity against a target.
type rule struct {
	target  int
	measure func(s *Snapshot) int
}

func (r rule) earned(s *Snapshot) bool {
	return r.measure(s) >= r.target
}

func (r rule) progress(s *Snapshot) int {
	return percent(r.measure(s), r.target)
}

// ruleStrategy is a category whose badges are all threshold rules keyed by
// badge id.
type ruleStrategy map[string]rule

func (rs ruleStrategy) Earned(badgeID string, s *Snapshot) bool {
	r, ok := rs[badgeID]
	if !ok {
		return false
	}
	return r.earned(s)
}

func (rs ruleStrategy) Progress(badgeID string, s *Snapshot) int {
	r, ok := rs[badgeID]
	if !ok {
		return 0
	}
	return r.progress(s)
}

// premiumStrategy is reserved; premium badges cannot be earned yet.
type premiumStrategy struct{}

func (premiumStrategy) Earned(string, *Snapshot) bool { return false }
func (premiumStrategy) Progress(string, *Snapshot) int { return 0 }

// unknownStrategy handles categories the engine does not recognise.
type unknownStrategy struct{}

func (unknownStrategy) Earned(string, *Snapshot) bool { return false }
func (unknownStrategy) Progress(string, *Snapshot) int { return 0 }

var streakStrategy = ruleStrategy{
	BadgeThreeDayStreak: {target: 3, measure: allHabitsStreak},
	BadgeWeekWarrior:    {target: 7, measure: allHabitsStreak},
	BadgeMonthlyMaster:  {target: 30, measure: allHabitsStreak},
}

var consistencyStrategy = ruleStrategy{
	BadgeConsistencyKing: {target: 5, measure: (*Snapshot).PerfectDays},
	BadgePerfectionist:   {target: 7, measure: (*Snapshot).PerfectDays},
}

var milestoneStrategy = ruleStrategy{
	BadgeFirstStep:    {target: 1, measure: allHabitsCompletions},
	BadgeHabitBuilder: {target: 3, measure: func(s *Snapshot) int { return len(s.Habits) }},
	BadgeCenturyClub:  {target: 100, measure: allHabitsCompletions},
}

var categoryStrategy = ruleStrategy{
	BadgeMindfulnessMaster: {target: 10, measure: func(s *Snapshot) int {
		return s.MaxCurrentStreak(s.HabitsIn(models.CategoryMindfulness))
	}},
	BadgeFitnessFanatic: {target: 20, measure: func(s *Snapshot) int {
		return s.TotalCompletions(s.HabitsIn(models.CategoryFitness, models.CategoryHealth))
	}},
	BadgeSocialButterfly: {target: 10, measure: func(s *Snapshot) int {
		return s.TotalCompletions(s.HabitsIn(models.CategorySocial))
	}},
}

var diversityStrategy = ruleStrategy{
	BadgeWellRounded: {target: 4, measure: (*Snapshot).DistinctCategories},
}

// strategies maps every known badge category to its evaluation strategy. Each
// entry of models.AllBadgeCategories must be present.
var strategies = map[models.BadgeCategory]Strategy{
	models.BadgeCategoryStreak:      streakStrategy,
	models.BadgeCategoryConsistency: consistencyStrategy,
	models.BadgeCategoryMilestone:   milestoneStrategy,
	models.BadgeCategoryCategory:    categoryStrategy,
	models.BadgeCategoryDiversity:   diversityStrategy,
	models.BadgeCategoryPremium:     premiumStrategy{},
}

// StrategyFor returns the strategy for a badge category.
func StrategyFor(category models.BadgeCategory) Strategy {
	if s, ok := strategies[category]; ok {
		return s
	}
	return unknownStrategy{}
}

func allHabitsStreak(s *Snapshot) int {
	return s.MaxCurrentStreak(s.Habits)
}

func allHabitsCompletions(s *Snapshot) int {
	return s.TotalCompletions(s.Habits)
}

func percent(value, target int) int {
	if target <= 0 || value <= 0 {
		return 0
	}
	p := int(math.Round(float64(value) / float64(target) * 100))
	if p > 100 {
		return 100
	}
	return p
}
