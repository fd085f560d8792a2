package xlsx

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
	"github.com/mbenson/tracker/internal/validation"
)

func taskToRow(t models.Task) []any {
	return []any{
		t.ID, t.UserID, t.Title, strconv.FormatBool(t.Completed),
		t.DueDate, string(t.Priority), t.CreatedAt.Format(time.RFC3339),
	}
}

func taskFromRow(row []string) (models.Task, error) {
	completed, err := strconv.ParseBool(cell(row, 3))
	if err != nil {
		completed = false
	}
	createdAt, err := time.Parse(time.RFC3339, cell(row, 6))
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return models.Task{
		ID:        cell(row, 0),
		UserID:    cell(row, 1),
		Title:     cell(row, 2),
		Completed: completed,
		DueDate:   cell(row, 4),
		Priority:  models.Priority(cell(row, 5)),
		CreatedAt: createdAt,
	}, nil
}

func (s *Store) readTasks() ([]models.Task, error) {
	rows, err := s.readRows(sheetTasks)
	if err != nil {
		return nil, err
	}
	all := make([]models.Task, 0, len(rows))
	for _, row := range rows {
		t, err := taskFromRow(row)
		if err != nil {
			return nil, err
		}
		all = append(all, t)
	}
	return all, nil
}

func (s *Store) writeTasks(all []models.Task) error {
	rows := make([][]any, 0, len(all))
	for _, t := range all {
		rows = append(rows, taskToRow(t))
	}
	return s.writeRows(sheetTasks, rows)
}

func (s *Store) ListTasks(userKey string) ([]models.Task, error) {
	all, err := s.readTasks()
	if err != nil {
		return nil, err
	}
	tasks := []models.Task{}
	for _, t := range all {
		if t.UserID == userKey {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *Store) CreateTask(userKey string, t models.Task) (models.Task, error) {
	s.locks[sheetTasks].Lock()
	defer s.locks[sheetTasks].Unlock()

	t.ID = storage.EnsureID(t.ID)
	t.UserID = userKey
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if err := validation.ValidateTask(t); err != nil {
		return models.Task{}, err
	}

	all, err := s.readTasks()
	if err != nil {
		return models.Task{}, err
	}
	for _, existing := range all {
		if existing.UserID == userKey && existing.ID == t.ID {
			return models.Task{}, storage.ErrConflict
		}
	}

	all = append(all, t)
	if err := s.writeTasks(all); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) UpdateTask(userKey, id string, patch models.TaskPatch) (models.Task, error) {
	s.locks[sheetTasks].Lock()
	defer s.locks[sheetTasks].Unlock()

	all, err := s.readTasks()
	if err != nil {
		return models.Task{}, err
	}
	for i, existing := range all {
		if existing.UserID != userKey || existing.ID != id {
			continue
		}
		updated := patch.Apply(existing)
		if err := validation.ValidateTask(updated); err != nil {
			return models.Task{}, err
		}
		all[i] = updated
		if err := s.writeTasks(all); err != nil {
			return models.Task{}, err
		}
		return updated, nil
	}
	return models.Task{}, storage.ErrNotFound
}

func (s *Store) DeleteTask(userKey, id string) error {
	s.locks[sheetTasks].Lock()
	defer s.locks[sheetTasks].Unlock()

	all, err := s.readTasks()
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
	return s.writeTasks(kept)
}
