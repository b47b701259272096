package badges

import "github.com/julianstephens/habitual/internal/models"

// Badge ids understood by the built-in strategies.
const (
	BadgeThreeDayStreak    = "3-day-streak"
	BadgeWeekWarrior       = "week-warrior"
	BadgeMonthlyMaster     = "monthly-master"
	BadgeConsistencyKing   = "consistency-king"
	BadgePerfectionist     = "perfectionist"
	BadgeFirstStep         = "first-step"
	BadgeHabitBuilder      = "habit-builder"
	BadgeCenturyClub       = "century-club"
	BadgeMindfulnessMaster = "mindfulness-master"
	BadgeFitnessFanatic    = "fitness-fanatic"
	BadgeSocialButterfly   = "social-butterfly"
	BadgeWellRounded       = "well-rounded"
	BadgePremiumPioneer    = "premium-pioneer"
)

// DefaultCatalog returns the badge definitions seeded into a fresh database.
func DefaultCatalog() []models.BadgeDefinition {
	return []models.BadgeDefinition{
		{
			ID:          BadgeFirstStep,
			Name:        "First Step",
			Description: "Complete a habit for the first time",
			Icon:        "👣",
			Criteria:    "Log any completion",
			Rarity:      models.RarityCommon,
			Category:    models.BadgeCategoryMilestone,
		},
		{
			ID:          BadgeThreeDayStreak,
			Name:        "Three in a Row",
			Description: "Keep a habit going for three days",
			Icon:        "🔥",
			Criteria:    "Reach a 3-day streak on any habit",
			Rarity:      models.RarityCommon,
			Category:    models.BadgeCategoryStreak,
		},
		{
			ID:          BadgeHabitBuilder,
			Name:        "Habit Builder",
			Description: "Track three habits at once",
			Icon:        "🧱",
			Criteria:    "Create at least 3 habits",
			Rarity:      models.RarityCommon,
			Category:    models.BadgeCategoryMilestone,
		},
		{
			ID:          BadgeWeekWarrior,
			Name:        "Week Warrior",
			Description: "A full week without missing a day",
			Icon:        "⚔️",
			Criteria:    "Reach a 7-day streak on any habit",
			Rarity:      models.RarityRare,
			Category:    models.BadgeCategoryStreak,
		},
		{
			ID:          BadgeConsistencyKing,
			Name:        "Consistency King",
			Description: "Complete every habit five days running",
			Icon:        "👑",
			Criteria:    "Complete all habits on each of the last 5 days",
			Rarity:      models.RarityRare,
			Category:    models.BadgeCategoryConsistency,
		},
		{
			ID:          BadgeWellRounded,
			Name:        "Well Rounded",
			Description: "Balance habits across different areas of life",
			Icon:        "🧭",
			Criteria:    "Have habits in at least 4 categories",
			Rarity:      models.RarityRare,
			Category:    models.BadgeCategoryDiversity,
		},
		{
			ID:          BadgeSocialButterfly,
			Name:        "Social Butterfly",
			Description: "Invest in your relationships",
			Icon:        "🦋",
			Criteria:    "Log 10 completions on social habits",
			Rarity:      models.RarityRare,
			Category:    models.BadgeCategoryCategory,
		},
		{
			ID:          BadgeMindfulnessMaster,
			Name:        "Mindfulness Master",
			Description: "Ten mindful days in a row",
			Icon:        "🪷",
			Criteria:    "Reach a 10-day streak on a mindfulness habit",
			Rarity:      models.RarityEpic,
			Category:    models.BadgeCategoryCategory,
		},
		{
			ID:          BadgeFitnessFanatic,
			Name:        "Fitness Fanatic",
			Description: "Keep moving",
			Icon:        "🏋️",
			Criteria:    "Log 20 completions on fitness or health habits",
			Rarity:      models.RarityEpic,
			Category:    models.BadgeCategoryCategory,
		},
		{
			ID:          BadgePerfectionist,
			Name:        "Perfectionist",
			Description: "A perfect week",
			Icon:        "💎",
			Criteria:    "Complete all habits on each of the last 7 days",
			Rarity:      models.RarityEpic,
			Category:    models.BadgeCategoryConsistency,
		},
		{
			ID:          BadgeMonthlyMaster,
			Name:        "Monthly Master",
			Description: "Thirty days without a break",
			Icon:        "📅",
			Criteria:    "Reach a 30-day streak on any habit",
			Rarity:      models.RarityLegendary,
			Category:    models.BadgeCategoryStreak,
		},
		{
			ID:          BadgeCenturyClub,
			Name:        "Century Club",
			Description: "One hundred completions",
			Icon:        "💯",
			Criteria:    "Log 100 completions across all habits",
			Rarity:      models.RarityLegendary,
			Category:    models.BadgeCategoryMilestone,
		},
		{
			ID:          BadgePremiumPioneer,
			Name:        "Premium Pioneer",
			Description: "Reserved for premium members",
			Icon:        "⭐",
			Criteria:    "Not yet available",
			IsPremium:   true,
			Rarity:      models.RarityLegendary,
			Category:    models.BadgeCategoryPremium,
		},
	}
}
