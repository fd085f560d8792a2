package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
	"github.com/mbenson/tracker/internal/validation"
)

func (s *Store) ListTasks(userKey string) ([]models.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, title, completed, due_date, priority, created_at
		FROM tasks WHERE user_id = ?`, userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) CreateTask(userKey string, t models.Task) (models.Task, error) {
	if err := s.ready(); err != nil {
		return models.Task{}, err
	}

	t.ID = storage.EnsureID(t.ID)
	t.UserID = userKey
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if err := validation.ValidateTask(t); err != nil {
		return models.Task{}, err
	}

	taken, err := s.exists("tasks", userKey, t.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to check task id: %w", err)
	}
	if taken {
		return models.Task{}, storage.ErrConflict
	}

	_, err = s.db.Exec(`
		INSERT INTO tasks (user_id, id, title, completed, due_date, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.ID, t.Title, t.Completed, t.DueDate, string(t.Priority),
		t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}
	return t, nil
}

func (s *Store) UpdateTask(userKey, id string, patch models.TaskPatch) (models.Task, error) {
	if err := s.ready(); err != nil {
		return models.Task{}, err
	}

	row := s.db.QueryRow(`
		SELECT id, user_id, title, completed, due_date, priority, created_at
		FROM tasks WHERE user_id = ? AND id = ?`, userKey, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}

	t = patch.Apply(t)
	if err := validation.ValidateTask(t); err != nil {
		return models.Task{}, err
	}

	_, err = s.db.Exec(`
		UPDATE tasks SET title = ?, completed = ?, due_date = ?, priority = ?
		WHERE user_id = ? AND id = ?`,
		t.Title, t.Completed, t.DueDate, string(t.Priority), userKey, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

func (s *Store) DeleteTask(userKey, id string) error {
	if err := s.ready(); err != nil {
		return err
	}

	res, err := s.db.Exec("DELETE FROM tasks WHERE user_id = ? AND id = ?", userKey, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var priority, createdAt string

	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.DueDate, &priority, &createdAt); err != nil {
		return models.Task{}, err
	}
	t.Priority = models.Priority(priority)

	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	t.CreatedAt = parsed
	return t, nil
}
