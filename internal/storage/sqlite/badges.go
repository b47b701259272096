package sqlite

import (
	"fmt"
	"time"

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
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				description = excluded.description,
				icon = excluded.icon,
				criteria = excluded.criteria,
				is_premium = excluded.is_premium,
				rarity = excluded.rarity,
				category = excluded.category,
				sort_order = excluded.sort_order`,
			d.ID, d.Name, d.Description, d.Icon, d.Criteria, d.IsPremium, d.Rarity, d.Category, i)
		if err != nil {
			return fmt.Errorf("failed to seed badge %s: %w", d.ID, err)
		}
	}
	return tx.Commit()
}

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
		WHERE user_id = ? ORDER BY earned_at, badge_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owned := []models.UserBadge{}
	for rows.Next() {
		var ub models.UserBadge
		var earnedAt string
		if err := rows.Scan(&ub.UserID, &ub.BadgeID, &earnedAt); err != nil {
			return nil, err
		}
		if ub.EarnedAt, err = time.Parse(timeLayout, earnedAt); err != nil {
			return nil, fmt.Errorf("failed to parse earned_at for badge %s: %w", ub.BadgeID, err)
		}
		owned = append(owned, ub)
	}
	return owned, rows.Err()
}

func (s *Store) AwardBadges(userID int64, badgeIDs []string, earnedAt time.Time) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	inserted := []string{}
	for _, id := range badgeIDs {
		result, err := tx.Exec(`
			INSERT INTO user_badges (user_id, badge_id, earned_at) VALUES (?, ?, ?)
			ON CONFLICT(user_id, badge_id) DO NOTHING`,
			userID, id, earnedAt.UTC().Format(timeLayout))
		if err != nil {
			return nil, fmt.Errorf("failed to award badge %s: %w", id, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			inserted = append(inserted, id)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inserted, nil
}
