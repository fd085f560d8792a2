package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
	"github.com/mbenson/tracker/internal/validation"
)

func (s *Store) ListHabits(userKey string) ([]models.Habit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, title, frequency, completed_dates, streak, created_at
		FROM habits WHERE user_id = ?`, userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
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

func (s *Store) CreateHabit(userKey string, h models.Habit) (models.Habit, error) {
	if err := s.ready(); err != nil {
		return models.Habit{}, err
	}

	h.ID = storage.EnsureID(h.ID)
	h.UserID = userKey
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	// Route the incoming dates through the single mutation entry point so the
	// stored streak always matches them.
	h.SetCompletedDates(h.CompletedDates, time.Now())
	if err := validation.ValidateHabit(h); err != nil {
		return models.Habit{}, err
	}

	taken, err := s.exists("habits", userKey, h.ID)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to check habit id: %w", err)
	}
	if taken {
		return models.Habit{}, storage.ErrConflict
	}

	frequency, completedDates, err := encodeHabitLists(h)
	if err != nil {
		return models.Habit{}, err
	}

	_, err = s.db.Exec(`
		INSERT INTO habits (user_id, id, title, frequency, completed_dates, streak, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.UserID, h.ID, h.Title, frequency, completedDates, h.Streak,
		h.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to insert habit: %w", err)
	}
	return h, nil
}

func (s *Store) UpdateHabit(userKey, id string, patch models.HabitPatch) (models.Habit, error) {
	if err := s.ready(); err != nil {
		return models.Habit{}, err
	}

	row := s.db.QueryRow(`
		SELECT id, user_id, title, frequency, completed_dates, streak, created_at
		FROM habits WHERE user_id = ? AND id = ?`, userKey, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Habit{}, err
	}

	h = patch.Apply(h, time.Now())
	if err := validation.ValidateHabit(h); err != nil {
		return models.Habit{}, err
	}

	frequency, completedDates, err := encodeHabitLists(h)
	if err != nil {
		return models.Habit{}, err
	}

	_, err = s.db.Exec(`
		UPDATE habits SET title = ?, frequency = ?, completed_dates = ?, streak = ?
		WHERE user_id = ? AND id = ?`,
		h.Title, frequency, completedDates, h.Streak, userKey, id)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}
	return h, nil
}

func (s *Store) DeleteHabit(userKey, id string) error {
	if err := s.ready(); err != nil {
		return err
	}

	res, err := s.db.Exec("DELETE FROM habits WHERE user_id = ? AND id = ?", userKey, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func encodeHabitLists(h models.Habit) (frequency, completedDates string, err error) {
	f, err := json.Marshal(h.Frequency)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode frequency: %w", err)
	}
	c, err := json.Marshal(h.CompletedDates)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode completed dates: %w", err)
	}
	return string(f), string(c), nil
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var frequency, completedDates, createdAt string

	if err := row.Scan(&h.ID, &h.UserID, &h.Title, &frequency, &completedDates, &h.Streak, &createdAt); err != nil {
		return models.Habit{}, err
	}
	if err := json.Unmarshal([]byte(frequency), &h.Frequency); err != nil {
		return models.Habit{}, fmt.Errorf("failed to decode frequency: %w", err)
	}
	if err := json.Unmarshal([]byte(completedDates), &h.CompletedDates); err != nil {
		return models.Habit{}, fmt.Errorf("failed to decode completed dates: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	h.CreatedAt = parsed
	return h, nil
}
