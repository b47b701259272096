package models

import "time"

// BadgeCategory selects the evaluation strategy for a badge.
type BadgeCategory string

const (
	BadgeCategoryStreak      BadgeCategory = "streak"
	BadgeCategoryConsistency BadgeCategory = "consistency"
	BadgeCategoryMilestone   BadgeCategory = "milestone"
	BadgeCategoryCategory    BadgeCategory = "category"
	BadgeCategoryDiversity   BadgeCategory = "diversity"
	BadgeCategoryPremium     BadgeCategory = "premium"
)

// AllBadgeCategories lists every badge category the engine knows how to
// evaluate.
var AllBadgeCategories = []BadgeCategory{
	BadgeCategoryStreak,
	BadgeCategoryConsistency,
	BadgeCategoryMilestone,
	BadgeCategoryCategory,
	BadgeCategoryDiversity,
	BadgeCategoryPremium,
}

func (c BadgeCategory) Valid() bool {
	for _, known := range AllBadgeCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Rarity is display-only. Order: common < rare < epic < legendary.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rank returns the ordinal position of the rarity, or -1 if unknown.
func (r Rarity) Rank() int {
	switch r {
	case RarityCommon:
		return 0
	case RarityRare:
		return 1
	case RarityEpic:
		return 2
	case RarityLegendary:
		return 3
	default:
		return -1
	}
}

type BadgeDefinition struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Criteria    string        `json:"criteria"` // human readable, not executable
	IsPremium   bool          `json:"isPremium"`
	Rarity      Rarity        `json:"rarity"`
	Category    BadgeCategory `json:"category"`
}

type UserBadge struct {
	UserID   int64     `json:"userId"`
	BadgeID  string    `json:"badgeId"`
	EarnedAt time.Time `json:"earnedAt"`
}

// BadgeProgress pairs a badge with the user's current progress towards it.
type BadgeProgress struct {
	Badge    BadgeDefinition `json:"badge"`
	Progress int             `json:"progress"` // 0-100
	Earned   bool            `json:"earned"`
	EarnedAt *time.Time      `json:"earnedAt,omitempty"`
}
