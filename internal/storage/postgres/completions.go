package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const completionColumns = `c.id, c.habit_id, c.day, c.status, c.mood, c.note, c.completed_at`

func scanCompletion(row rowScanner) (models.Completion, error) {
	var c models.Completion
	var mood sql.NullInt64
	var note sql.NullString

	if err := row.Scan(&c.ID, &c.HabitID, &c.Day, &c.Status, &mood, &note, &c.CompletedAt); err != nil {
		return models.Completion{}, err
	}
	if mood.Valid {
		m := int(mood.Int64)
		c.Mood = &m
	}
	if note.Valid {
		c.Note = &note.String
	}
	return c, nil
}

func scanCompletions(rows *sql.Rows) ([]models.Completion, error) {
	defer rows.Close()
	completions := []models.Completion{}
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (s *Store) AddCompletion(c models.Completion) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = models.CompletionCompleted
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}

	result, err := s.db.Exec(`
		INSERT INTO completions (id, habit_id, day, status, mood, note, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (habit_id, day) DO NOTHING`,
		c.ID, c.HabitID, c.Day, c.Status, c.Mood, c.Note, c.CompletedAt)
	if err != nil {
		return err
	}
	return expectOne(result, fmt.Errorf("completion for habit %d on %s: %w", c.HabitID, c.Day, storage.ErrAlreadyExists))
}

func (s *Store) GetCompletion(habitID int64, day string) (models.Completion, error) {
	row := s.db.QueryRow(`SELECT `+completionColumns+`
		FROM completions c WHERE c.habit_id = $1 AND c.day = $2`, habitID, day)
	c, err := scanCompletion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Completion{}, fmt.Errorf("completion for habit %d on %s: %w", habitID, day, storage.ErrNotFound)
	}
	return c, err
}

func (s *Store) DeleteCompletion(habitID int64, day string) error {
	result, err := s.db.Exec(`DELETE FROM completions WHERE habit_id = $1 AND day = $2`, habitID, day)
	if err != nil {
		return err
	}
	return expectOne(result, fmt.Errorf("completion for habit %d on %s: %w", habitID, day, storage.ErrNotFound))
}

func (s *Store) GetCompletionsForHabit(habitID int64) ([]models.Completion, error) {
	rows, err := s.db.Query(`SELECT `+completionColumns+`
		FROM completions c WHERE c.habit_id = $1 ORDER BY c.day`, habitID)
	if err != nil {
		return nil, err
	}
	return scanCompletions(rows)
}

func (s *Store) GetCompletionsForUser(userID int64, startDay, endDay string) ([]models.Completion, error) {
	query := `SELECT ` + completionColumns + `
		FROM completions c JOIN habits h ON h.id = c.habit_id
		WHERE h.user_id = $1`
	args := []any{userID}
	if startDay != "" {
		args = append(args, startDay)
		query += fmt.Sprintf(" AND c.day >= $%d", len(args))
	}
	if endDay != "" {
		args = append(args, endDay)
		query += fmt.Sprintf(" AND c.day <= $%d", len(args))
	}
	query += " ORDER BY c.day, c.habit_id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return scanCompletions(rows)
}
