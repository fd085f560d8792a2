package xlsx

import (
	"fmt"
	"strconv"

	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
	"github.com/mbenson/tracker/internal/validation"
)

func timeBlockToRow(b models.TimeBlock) []any {
	return []any{
		b.ID, b.UserID, b.Title, b.Day,
		strconv.Itoa(b.StartHour), strconv.Itoa(b.Duration), string(b.Category),
	}
}

func timeBlockFromRow(row []string) (models.TimeBlock, error) {
	startHour, err := strconv.Atoi(cell(row, 4))
	if err != nil {
		return models.TimeBlock{}, fmt.Errorf("failed to parse start_hour: %w", err)
	}
	duration, err := strconv.Atoi(cell(row, 5))
	if err != nil {
		return models.TimeBlock{}, fmt.Errorf("failed to parse duration: %w", err)
	}
	return models.TimeBlock{
		ID:        cell(row, 0),
		UserID:    cell(row, 1),
		Title:     cell(row, 2),
		Day:       cell(row, 3),
		StartHour: startHour,
		Duration:  duration,
		Category:  models.BlockCategory(cell(row, 6)),
	}, nil
}

func (s *Store) readTimeBlocks() ([]models.TimeBlock, error) {
	rows, err := s.readRows(sheetPlanner)
	if err != nil {
		return nil, err
	}
	all := make([]models.TimeBlock, 0, len(rows))
	for _, row := range rows {
		b, err := timeBlockFromRow(row)
		if err != nil {
			return nil, err
		}
		all = append(all, b)
	}
	return all, nil
}

func (s *Store) writeTimeBlocks(all []models.TimeBlock) error {
	rows := make([][]any, 0, len(all))
	for _, b := range all {
		rows = append(rows, timeBlockToRow(b))
	}
	return s.writeRows(sheetPlanner, rows)
}

func (s *Store) ListTimeBlocks(userKey string) ([]models.TimeBlock, error) {
	all, err := s.readTimeBlocks()
	if err != nil {
		return nil, err
	}
	blocks := []models.TimeBlock{}
	for _, b := range all {
		if b.UserID == userKey {
			blocks = append(blocks, b)
		}
	}
	return blocks, nil
}

func (s *Store) CreateTimeBlock(userKey string, b models.TimeBlock) (models.TimeBlock, error) {
	s.locks[sheetPlanner].Lock()
	defer s.locks[sheetPlanner].Unlock()

	b.ID = storage.EnsureID(b.ID)
	b.UserID = userKey
	if err := validation.ValidateTimeBlock(b); err != nil {
		return models.TimeBlock{}, err
	}

	all, err := s.readTimeBlocks()
	if err != nil {
		return models.TimeBlock{}, err
	}
	for _, existing := range all {
		if existing.UserID == userKey && existing.ID == b.ID {
			return models.TimeBlock{}, storage.ErrConflict
		}
	}

	all = append(all, b)
	if err := s.writeTimeBlocks(all); err != nil {
		return models.TimeBlock{}, err
	}
	return b, nil
}

func (s *Store) UpdateTimeBlock(userKey, id string, patch models.TimeBlockPatch) (models.TimeBlock, error) {
	s.locks[sheetPlanner].Lock()
	defer s.locks[sheetPlanner].Unlock()

	all, err := s.readTimeBlocks()
	if err != nil {
		return models.TimeBlock{}, err
	}
	for i, existing := range all {
		if existing.UserID != userKey || existing.ID != id {
			continue
		}
		updated := patch.Apply(existing)
		if err := validation.ValidateTimeBlock(updated); err != nil {
			return models.TimeBlock{}, err
		}
		all[i] = updated
		if err := s.writeTimeBlocks(all); err != nil {
			return models.TimeBlock{}, err
		}
		return updated, nil
	}
	return models.TimeBlock{}, storage.ErrNotFound
}

func (s *Store) DeleteTimeBlock(userKey, id string) error {
	s.locks[sheetPlanner].Lock()
	defer s.locks[sheetPlanner].Unlock()

	all, err := s.readTimeBlocks()
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
	return s.writeTimeBlocks(kept)
}
