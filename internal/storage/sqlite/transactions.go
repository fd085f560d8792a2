package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
	"github.com/mbenson/tracker/internal/validation"
)

func (s *Store) ListTransactions(userKey string) ([]models.Transaction, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, amount, category, date, type, description, created_at
		FROM transactions WHERE user_id = ?`, userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (s *Store) CreateTransaction(userKey string, t models.Transaction) (models.Transaction, error) {
	if err := s.ready(); err != nil {
		return models.Transaction{}, err
	}

	t.ID = storage.EnsureID(t.ID)
	t.UserID = userKey
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if err := validation.ValidateTransaction(t); err != nil {
		return models.Transaction{}, err
	}

	taken, err := s.exists("transactions", userKey, t.ID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to check transaction id: %w", err)
	}
	if taken {
		return models.Transaction{}, storage.ErrConflict
	}

	_, err = s.db.Exec(`
		INSERT INTO transactions (user_id, id, amount, category, date, type, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.ID, t.Amount.String(), t.Category, t.Date, string(t.Type),
		t.Description, t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to insert transaction: %w", err)
	}
	return t, nil
}

func (s *Store) UpdateTransaction(userKey, id string, patch models.TransactionPatch) (models.Transaction, error) {
	if err := s.ready(); err != nil {
		return models.Transaction{}, err
	}

	row := s.db.QueryRow(`
		SELECT id, user_id, amount, category, date, type, description, created_at
		FROM transactions WHERE user_id = ? AND id = ?`, userKey, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}

	t = patch.Apply(t)
	if err := validation.ValidateTransaction(t); err != nil {
		return models.Transaction{}, err
	}

	_, err = s.db.Exec(`
		UPDATE transactions SET amount = ?, category = ?, date = ?, type = ?, description = ?
		WHERE user_id = ? AND id = ?`,
		t.Amount.String(), t.Category, t.Date, string(t.Type), t.Description, userKey, id)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to update transaction: %w", err)
	}
	return t, nil
}

func (s *Store) DeleteTransaction(userKey, id string) error {
	if err := s.ready(); err != nil {
		return err
	}

	res, err := s.db.Exec("DELETE FROM transactions WHERE user_id = ? AND id = ?", userKey, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
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

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var t models.Transaction
	var amount, txType, createdAt string

	if err := row.Scan(&t.ID, &t.UserID, &amount, &t.Category, &t.Date, &txType, &t.Description, &createdAt); err != nil {
		return models.Transaction{}, err
	}
	t.Type = models.TransactionType(txType)

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to parse amount: %w", err)
	}
	t.Amount = parsed

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	t.CreatedAt = ts
	return t, nil
}
