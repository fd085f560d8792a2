// Package xlsx implements the resource store on a spreadsheet workbook, one
// sheet per resource kind. Every write rereads and overwrites the whole sheet,
// so all writes for a sheet are serialized through a single-writer lock;
// concurrent server processes sharing one file would still clobber each other.
package xlsx

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
)

const (
	sheetTasks   = "Tasks"
	sheetHabits  = "Habits"
	sheetFinance = "Finance"
	sheetPlanner = "Planner"
)

var sheetHeaders = map[string][]string{
	sheetTasks:   {"id", "user_id", "title", "completed", "due_date", "priority", "created_at"},
	sheetHabits:  {"id", "user_id", "title", "frequency", "completed_dates", "streak", "created_at"},
	sheetFinance: {"id", "user_id", "amount", "category", "date", "type", "description", "created_at"},
	sheetPlanner: {"id", "user_id", "title", "day", "start_hour", "duration", "category"},
}

type Store struct {
	path  string
	locks map[string]*sync.Mutex
}

func NewStore(path string) *Store {
	locks := make(map[string]*sync.Mutex, len(sheetHeaders))
	for sheet := range sheetHeaders {
		locks[sheet] = &sync.Mutex{}
	}
	return &Store{path: path, locks: locks}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil
	}

	f := excelize.NewFile()
	defer f.Close()
	for _, sheet := range []string{sheetTasks, sheetHabits, sheetFinance, sheetPlanner} {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		header := sheetHeaders[sheet]
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header for %s: %w", sheet, err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// readRows returns all data rows of the sheet, header excluded.
func (s *Store) readRows(sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

// writeRows overwrites the whole sheet with the header and the given rows.
func (s *Store) writeRows(sheet string, rows [][]any) error {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if err := f.DeleteSheet(sheet); err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", sheet, err)
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to recreate sheet %s: %w", sheet, err)
	}
	header := sheetHeaders[sheet]
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", sheet, err)
	}
	for i, row := range rows {
		axis := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// cell tolerates rows shortened by trailing empty cells.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
