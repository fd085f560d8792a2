package xlsx

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
	"github.com/mbenson/tracker/internal/validation"
)

func habitToRow(h models.Habit) ([]any, error) {
	frequency, err := json.Marshal(h.Frequency)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frequency: %w", err)
	}
	completedDates, err := json.Marshal(h.CompletedDates)
	if err != nil {
		return nil, fmt.Errorf("failed to encode completed dates: %w", err)
	}
	return []any{
		h.ID, h.UserID, h.Title, string(frequency), string(completedDates),
		strconv.Itoa(h.Streak), h.CreatedAt.Format(time.RFC3339),
	}, nil
}

func habitFromRow(row []string) (models.Habit, error) {
	var h models.Habit
	h.ID = cell(row, 0)
	h.UserID = cell(row, 1)
	h.Title = cell(row, 2)

	if err := json.Unmarshal([]byte(cell(row, 3)), &h.Frequency); err != nil {
		return models.Habit{}, fmt.Errorf("failed to decode frequency: %w", err)
	}
	if raw := cell(row, 4); raw != "" {
		if err := json.Unmarshal([]byte(raw), &h.CompletedDates); err != nil {
			return models.Habit{}, fmt.Errorf("failed to decode completed dates: %w", err)
		}
	}

	streak, err := strconv.Atoi(cell(row, 5))
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse streak: %w", err)
	}
	h.Streak = streak

	createdAt, err := time.Parse(time.RFC3339, cell(row, 6))
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	h.CreatedAt = createdAt
	return h, nil
}

func (s *Store) readHabits() ([]models.Habit, error) {
	rows, err := s.readRows(sheetHabits)
	if err != nil {
		return nil, err
	}
	all := make([]models.Habit, 0, len(rows))
	for _, row := range rows {
		h, err := habitFromRow(row)
		if err != nil {
			return nil, err
		}
		all = append(all, h)
	}
	return all, nil
}

func (s *Store) writeHabits(all []models.Habit) error {
	rows := make([][]any, 0, len(all))
	for _, h := range all {
		row, err := habitToRow(h)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return s.writeRows(sheetHabits, rows)
}

func (s *Store) ListHabits(userKey string) ([]models.Habit, error) {
	all, err := s.readHabits()
	if err != nil {
		return nil, err
	}
	habits := []models.Habit{}
	for _, h := range all {
		if h.UserID == userKey {
			habits = append(habits, h)
		}
	}
	return habits, nil
}

func (s *Store) CreateHabit(userKey string, h models.Habit) (models.Habit, error) {
	s.locks[sheetHabits].Lock()
	defer s.locks[sheetHabits].Unlock()

	h.ID = storage.EnsureID(h.ID)
	h.UserID = userKey
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	h.SetCompletedDates(h.CompletedDates, time.Now())
	if err := validation.ValidateHabit(h); err != nil {
		return models.Habit{}, err
	}

	all, err := s.readHabits()
	if err != nil {
		return models.Habit{}, err
	}
	for _, existing := range all {
		if existing.UserID == userKey && existing.ID == h.ID {
			return models.Habit{}, storage.ErrConflict
		}
	}

	all = append(all, h)
	if err := s.writeHabits(all); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) UpdateHabit(userKey, id string, patch models.HabitPatch) (models.Habit, error) {
	s.locks[sheetHabits].Lock()
	defer s.locks[sheetHabits].Unlock()

	all, err := s.readHabits()
	if err != nil {
		return models.Habit{}, err
	}
	for i, existing := range all {
		if existing.UserID != userKey || existing.ID != id {
			continue
		}
		updated := patch.Apply(existing, time.Now())
		if err := validation.ValidateHabit(updated); err != nil {
			return models.Habit{}, err
		}
		all[i] = updated
		if err := s.writeHabits(all); err != nil {
			return models.Habit{}, err
		}
		return updated, nil
	}
	return models.Habit{}, storage.ErrNotFound
}

func (s *Store) DeleteHabit(userKey, id string) error {
	s.locks[sheetHabits].Lock()
	defer s.locks[sheetHabits].Unlock()

	all, err := s.readHabits()
	if err != nil {
		return err
	}
	kept := all[:0]
	found := false
	for _, existing := range all {
		if existing.UserID == userKey && existing.ID == id {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return storage.ErrNotFound
	}
	return s.writeHabits(kept)
}
