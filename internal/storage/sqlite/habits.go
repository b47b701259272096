package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

const habitColumns = `id, user_id, name, description, category, subcategory, frequency_type,
	target_days, start_at, end_at, pause_until, deleted_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func nullDay(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: utils.DayKey(*t), Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timeLayout), Valid: true}
}

func parseNullDay(ns sql.NullString, field string) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := utils.ParseDay(ns.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return &t, nil
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var freqType, targetDays, startAt, createdAt string
	var endAt, pauseUntil, deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Category, &h.Subcategory,
		&freqType, &targetDays, &startAt, &endAt, &pauseUntil, &deletedAt, &createdAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Frequency.Type = models.FrequencyType(freqType)
	if err := json.Unmarshal([]byte(targetDays), &h.Frequency.TargetDays); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse target_days for habit %d: %w", h.ID, err)
	}
	if len(h.Frequency.TargetDays) == 0 {
		h.Frequency.TargetDays = nil
	}

	if h.StartAt, err = utils.ParseDay(startAt); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse start_at for habit %d: %w", h.ID, err)
	}
	if h.EndAt, err = parseNullDay(endAt, "end_at"); err != nil {
		return models.Habit{}, err
	}
	if h.PauseUntil, err = parseNullDay(pauseUntil, "pause_until"); err != nil {
		return models.Habit{}, err
	}
	if h.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %d: %w", h.ID, err)
	}
	if deletedAt.Valid {
		t, err := time.Parse(timeLayout, deletedAt.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse deleted_at for habit %d: %w", h.ID, err)
		}
		h.DeletedAt = &t
	}

	return h, nil
}

func encodeTargetDays(days []int) (string, error) {
	if days == nil {
		days = []int{}
	}
	b, err := json.Marshal(days)
	return string(b), err
}

func (s *Store) AddHabit(habit models.Habit) (int64, error) {
	if _, err := s.GetHabitByName(habit.UserID, habit.Name); err == nil {
		return 0, fmt.Errorf("habit %q: %w", habit.Name, storage.ErrAlreadyExists)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return 0, err
	}

	targetDays, err := encodeTargetDays(habit.Frequency.TargetDays)
	if err != nil {
		return 0, err
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}

	result, err := s.db.Exec(`
		INSERT INTO habits (user_id, name, description, category, subcategory, frequency_type,
			target_days, start_at, end_at, pause_until, deleted_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.UserID, habit.Name, habit.Description, habit.Category, habit.Subcategory,
		habit.Frequency.Type, targetDays, utils.DayKey(habit.StartAt),
		nullDay(habit.EndAt), nullDay(habit.PauseUntil), nullTime(habit.DeletedAt),
		habit.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) GetHabit(id int64) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ? AND deleted_at IS NULL`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %d: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByName(userID int64, name string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+`
		FROM habits WHERE user_id = ? AND name = ? AND deleted_at IS NULL`, userID, name)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetAllHabits(userID int64, includeDeleted bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	targetDays, err := encodeTargetDays(habit.Frequency.TargetDays)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(`
		UPDATE habits SET name = ?, description = ?, category = ?, subcategory = ?,
			frequency_type = ?, target_days = ?, start_at = ?, end_at = ?, pause_until = ?
		WHERE id = ? AND deleted_at IS NULL`,
		habit.Name, habit.Description, habit.Category, habit.Subcategory,
		habit.Frequency.Type, targetDays, utils.DayKey(habit.StartAt),
		nullDay(habit.EndAt), nullDay(habit.PauseUntil), habit.ID)
	if err != nil {
		return err
	}
	return expectOne(result, fmt.Errorf("habit %d: %w", habit.ID, storage.ErrNotFound))
}

func (s *Store) PauseHabit(id int64, until *time.Time) error {
	result, err := s.db.Exec(`UPDATE habits SET pause_until = ? WHERE id = ? AND deleted_at IS NULL`,
		nullDay(until), id)
	if err != nil {
		return err
	}
	return expectOne(result, fmt.Errorf("habit %d: %w", id, storage.ErrNotFound))
}

func (s *Store) DeleteHabit(id int64) error {
	result, err := s.db.Exec(`UPDATE habits SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return err
	}
	return expectOne(result, fmt.Errorf("habit %d not found or already deleted: %w", id, storage.ErrNotFound))
}

func (s *Store) RestoreHabit(id int64) error {
	result, err := s.db.Exec(`UPDATE habits SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return expectOne(result, fmt.Errorf("habit %d not found or not deleted: %w", id, storage.ErrNotFound))
}

func expectOne(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
