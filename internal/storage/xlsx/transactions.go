package xlsx

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
	"github.com/mbenson/tracker/internal/validation"
)

func transactionToRow(t models.Transaction) []any {
	return []any{
		t.ID, t.UserID, t.Amount.String(), t.Category, t.Date,
		string(t.Type), t.Description, t.CreatedAt.Format(time.RFC3339),
	}
}

func transactionFromRow(row []string) (models.Transaction, error) {
	amount, err := decimal.NewFromString(cell(row, 2))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to parse amount: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339, cell(row, 7))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return models.Transaction{
		ID:          cell(row, 0),
		UserID:      cell(row, 1),
		Amount:      amount,
		Category:    cell(row, 3),
		Date:        cell(row, 4),
		Type:        models.TransactionType(cell(row, 5)),
		Description: cell(row, 6),
		CreatedAt:   createdAt,
	}, nil
}

func (s *Store) readTransactions() ([]models.Transaction, error) {
	rows, err := s.readRows(sheetFinance)
	if err != nil {
		return nil, err
	}
	all := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := transactionFromRow(row)
		if err != nil {
			return nil, err
		}
		all = append(all, t)
	}
	return all, nil
}

func (s *Store) writeTransactions(all []models.Transaction) error {
	rows := make([][]any, 0, len(all))
	for _, t := range all {
		rows = append(rows, transactionToRow(t))
	}
	return s.writeRows(sheetFinance, rows)
}

func (s *Store) ListTransactions(userKey string) ([]models.Transaction, error) {
	all, err := s.readTransactions()
	if err != nil {
		return nil, err
	}
	txs := []models.Transaction{}
	for _, t := range all {
		if t.UserID == userKey {
			txs = append(txs, t)
		}
	}
	return txs, nil
}

func (s *Store) CreateTransaction(userKey string, t models.Transaction) (models.Transaction, error) {
	s.locks[sheetFinance].Lock()
	defer s.locks[sheetFinance].Unlock()

	t.ID = storage.EnsureID(t.ID)
	t.UserID = userKey
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if err := validation.ValidateTransaction(t); err != nil {
		return models.Transaction{}, err
	}

	all, err := s.readTransactions()
	if err != nil {
		return models.Transaction{}, err
	}
	for _, existing := range all {
		if existing.UserID == userKey && existing.ID == t.ID {
			return models.Transaction{}, storage.ErrConflict
		}
	}

	all = append(all, t)
	if err := s.writeTransactions(all); err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

func (s *Store) UpdateTransaction(userKey, id string, patch models.TransactionPatch) (models.Transaction, error) {
	s.locks[sheetFinance].Lock()
	defer s.locks[sheetFinance].Unlock()

	all, err := s.readTransactions()
	if err != nil {
		return models.Transaction{}, err
	}
	for i, existing := range all {
		if existing.UserID != userKey || existing.ID != id {
			continue
		}
		updated := patch.Apply(existing)
		if err := validation.ValidateTransaction(updated); err != nil {
			return models.Transaction{}, err
		}
		all[i] = updated
		if err := s.writeTransactions(all); err != nil {
			return models.Transaction{}, err
		}
		return updated, nil
	}
	return models.Transaction{}, storage.ErrNotFound
}

func (s *Store) DeleteTransaction(userKey, id string) error {
	s.locks[sheetFinance].Lock()
	defer s.locks[sheetFinance].Unlock()

	all, err := s.readTransactions()
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
	return s.writeTransactions(kept)
}
