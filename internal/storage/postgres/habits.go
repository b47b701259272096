package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	pq "github.com/lib/pq"

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

func targetDaysArray(days []int) pq.Int64Array {
	arr := pq.Int64Array{}
	for _, d := range days {
		arr = append(arr, int64(d))
	}
	return arr
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var freqType, startAt string
	var targetDays pq.Int64Array
	var endAt, pauseUntil sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Category, &h.Subcategory,
		&freqType, &targetDays, &startAt, &endAt, &pauseUntil, &deletedAt, &h.CreatedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Frequency.Type = models.FrequencyType(freqType)
	for _, d := range targetDays {
		h.Frequency.TargetDays = append(h.Frequency.TargetDays, int(d))
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
	if deletedAt.Valid {
		h.DeletedAt = &deletedAt.Time
	}

	return h, nil
}

func (s *Store) AddHabit(habit models.Habit) (int64, error) {
	if _, err := s.GetHabitByName(habit.UserID, habit.Name); err == nil {
		return 0, fmt.Errorf("habit %q: %w", habit.Name, storage.ErrAlreadyExists)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return 0, err
	}

	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}

	var id int64
	err := s.db.QueryRow(`
		INSERT INTO habits (user_id, name, description, category, subcategory, frequency_type,
			target_days, start_at, end_at, pause_until, deleted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		habit.UserID, habit.Name, habit.Description, habit.Category, habit.Subcategory,
		habit.Frequency.Type, targetDaysArray(habit.Frequency.TargetDays), utils.DayKey(habit.StartAt),
		nullDay(habit.EndAt), nullDay(habit.PauseUntil), habit.DeletedAt, habit.CreatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetHabit(id int64) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = $1 AND deleted_at IS NULL`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %d: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByName(userID int64, name string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+`
		FROM habits WHERE user_id = $1 AND name = $2 AND deleted_at IS NULL`, userID, name)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetAllHabits(userID int64, includeDeleted bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1`
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
	result, err := s.db.Exec(`
		UPDATE habits SET name = $1, description = $2, category = $3, subcategory = $4,
			frequency_type = $5, target_days = $6, start_at = $7, end_at = $8, pause_until = $9
		WHERE id = $10 AND deleted_at IS NULL`,
		habit.Name, habit.Description, habit.Category, habit.Subcategory,
		habit.Frequency.Type, targetDaysArray(habit.Frequency.TargetDays), utils.DayKey(habit.StartAt),
		nullDay(habit.EndAt), nullDay(habit.PauseUntil), habit.ID)
	if err != nil {
		return err
	}
	return expectOne(result, fmt.Errorf("habit %d: %w", habit.ID, storage.ErrNotFound))
}

func (s *Store) PauseHabit(id int64, until *time.Time) error {
	result, err := s.db.Exec(`UPDATE habits SET pause_until = $1 WHERE id = $2 AND deleted_at IS NULL`,
		nullDay(until), id)
	if err != nil {
		return err
	}
	return expectOne(result, fmt.Errorf("habit %d: %w", id, storage.ErrNotFound))
}

func (s *Store) DeleteHabit(id int64) error {
	result, err := s.db.Exec(`UPDATE habits SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now(), id)
	if err != nil {
		return err
	}
	return expectOne(result, fmt.Errorf("habit %d not found or already deleted: %w", id, storage.ErrNotFound))
}

func (s *Store) RestoreHabit(id int64) error {
	result, err := s.db.Exec(`UPDATE habits SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`, id)
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
