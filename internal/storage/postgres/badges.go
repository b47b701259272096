package postgres

import (
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habitual/internal/models"
)

// SeedBadges upserts badge definitions so catalogue edits reach existing
// databases.
func (s *Store) SeedBadges(defs []models.BadgeDefinition) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, d := range defs {
		_, err := tx.Exec(`
			INSERT INTO badges (id, name, description, icon, criteria, is_premium, rarity, category, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				icon = EXCLUDED.icon,
				criteria = EXCLUDED.criteria,
				is_premium = EXCLUDED.is_premium,
				rarity = EXCLUDED.rarity,
				category = EXCLUDED.category,
				sort_order = EXCLUDED.sort_order`,
			d.ID, d.Name, d.Description, d.Icon, d.Criteria, d.IsPremium, d.Rarity, d.Category, i)
		if err != nil {
			return fmt.Errorf("failed to seed badge %s: %w", d.ID, err)
		}
	}
	return tx.Commit()
}

// GetBadges returns definitions in the order they were last seeded.
func (s *Store) GetBadges() ([]models.BadgeDefinition, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, icon, criteria, is_premium, rarity, category
		FROM badges ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	defs := []models.BadgeDefinition{}
	for rows.Next() {
		var d models.BadgeDefinition
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Icon, &d.Criteria, &d.IsPremium, &d.Rarity, &d.Category); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

func (s *Store) GetUserBadges(userID int64) ([]models.UserBadge, error) {
	rows, err := s.db.Query(`
		SELECT user_id, badge_id, earned_at FROM user_badges
		WHERE user_id = $1 ORDER BY earned_at, badge_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owned := []models.UserBadge{}
	for rows.Next() {
		var ub models.UserBadge
		if err := rows.Scan(&ub.UserID, &ub.BadgeID, &ub.EarnedAt); err != nil {
			return nil, err
		}
		owned = append(owned, ub)
	}
	return owned, rows.Err()
}

func (s *Store) AwardBadges(userID int64, badgeIDs []string, earnedAt time.Time) ([]string, error) {
	if len(badgeIDs) == 0 {
		return []string{}, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		INSERT INTO user_badges (user_id, badge_id, earned_at)
		SELECT $1::bigint, b, $3::timestamptz FROM unnest($2::text[]) AS b
		ON CONFLICT (user_id, badge_id) DO NOTHING
		RETURNING badge_id`,
		userID, pq.Array(badgeIDs), earnedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to award badges: %w", err)
	}

	added := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		added[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// RETURNING order is unspecified; report in request order.
	inserted := []string{}
	for _, id := range badgeIDs {
		if added[id] {
			inserted = append(inserted, id)
			delete(added, id)
		}
	}
	return inserted, nil
}
