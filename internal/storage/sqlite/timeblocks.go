package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
	"github.com/mbenson/tracker/internal/validation"
)

func (s *Store) ListTimeBlocks(userKey string) ([]models.TimeBlock, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, title, day, start_hour, duration, category
		FROM time_blocks WHERE user_id = ?`, userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query time blocks: %w", err)
	}
	defer rows.Close()

	blocks := []models.TimeBlock{}
	for rows.Next() {
		b, err := scanTimeBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (s *Store) CreateTimeBlock(userKey string, b models.TimeBlock) (models.TimeBlock, error) {
	if err := s.ready(); err != nil {
		return models.TimeBlock{}, err
	}

	b.ID = storage.EnsureID(b.ID)
	b.UserID = userKey
	if err := validation.ValidateTimeBlock(b); err != nil {
		return models.TimeBlock{}, err
	}

	taken, err := s.exists("time_blocks", userKey, b.ID)
	if err != nil {
		return models.TimeBlock{}, fmt.Errorf("failed to check time block id: %w", err)
	}
	if taken {
		return models.TimeBlock{}, storage.ErrConflict
	}

	_, err = s.db.Exec(`
		INSERT INTO time_blocks (user_id, id, title, day, start_hour, duration, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.ID, b.Title, b.Day, b.StartHour, b.Duration, string(b.Category))
	if err != nil {
		return models.TimeBlock{}, fmt.Errorf("failed to insert time block: %w", err)
	}
	return b, nil
}

func (s *Store) UpdateTimeBlock(userKey, id string, patch models.TimeBlockPatch) (models.TimeBlock, error) {
	if err := s.ready(); err != nil {
		return models.TimeBlock{}, err
	}

	row := s.db.QueryRow(`
		SELECT id, user_id, title, day, start_hour, duration, category
		FROM time_blocks WHERE user_id = ? AND id = ?`, userKey, id)
	b, err := scanTimeBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TimeBlock{}, storage.ErrNotFound
	}
	if err != nil {
		return models.TimeBlock{}, err
	}

	b = patch.Apply(b)
	if err := validation.ValidateTimeBlock(b); err != nil {
		return models.TimeBlock{}, err
	}

	_, err = s.db.Exec(`
		UPDATE time_blocks SET title = ?, day = ?, start_hour = ?, duration = ?, category = ?
		WHERE user_id = ? AND id = ?`,
		b.Title, b.Day, b.StartHour, b.Duration, string(b.Category), userKey, id)
	if err != nil {
		return models.TimeBlock{}, fmt.Errorf("failed to update time block: %w", err)
	}
	return b, nil
}

func (s *Store) DeleteTimeBlock(userKey, id string) error {
	if err := s.ready(); err != nil {
		return err
	}

	res, err := s.db.Exec("DELETE FROM time_blocks WHERE user_id = ? AND id = ?", userKey, id)
	if err != nil {
		return fmt.Errorf("failed to delete time block: %w", err)
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

func scanTimeBlock(row rowScanner) (models.TimeBlock, error) {
	var b models.TimeBlock
	var category string

	if err := row.Scan(&b.ID, &b.UserID, &b.Title, &b.Day, &b.StartHour, &b.Duration, &category); err != nil {
		return models.TimeBlock{}, err
	}
	b.Category = models.BlockCategory(category)
	return b, nil
}
