// Package postgres implements the resource store on PostgreSQL. Schema and
// semantics match the sqlite backend; the two are interchangeable behind the
// REST contract.
package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
	"github.com/mbenson/tracker/internal/validation"
)

// IsDSN reports whether s looks like a PostgreSQL connection string.
func IsDSN(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// HasEmbeddedCredentials reports whether the connection string carries a
// password inline. Those should live in the environment or the OS keyring
// instead.
func HasEmbeddedCredentials(dsn string) bool {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return false
	}
	_, set := u.User.Password()
	return set
}

type Store struct {
	dsn string
	db  *sql.DB
}

func NewStore(dsn string) *Store {
	return &Store{dsn: dsn}
}

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	user_id TEXT NOT NULL,
	id TEXT NOT NULL,
	title TEXT NOT NULL,
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	due_date TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS habits (
	user_id TEXT NOT NULL,
	id TEXT NOT NULL,
	title TEXT NOT NULL,
	frequency TEXT NOT NULL,
	completed_dates TEXT NOT NULL,
	streak INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS transactions (
	user_id TEXT NOT NULL,
	id TEXT NOT NULL,
	amount TEXT NOT NULL,
	category TEXT NOT NULL,
	date TEXT NOT NULL,
	type TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS time_blocks (
	user_id TEXT NOT NULL,
	id TEXT NOT NULL,
	title TEXT NOT NULL,
	day TEXT NOT NULL,
	start_hour INTEGER NOT NULL,
	duration INTEGER NOT NULL,
	category TEXT NOT NULL,
	PRIMARY KEY (user_id, id)
);`

func (s *Store) Init() error {
	db, err := sql.Open("postgres", s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ready() error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	return nil
}

func (s *Store) exists(table, userKey, id string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM "+table+" WHERE user_id = $1 AND id = $2", userKey, id)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Tasks

func (s *Store) ListTasks(userKey string) ([]models.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, title, completed, due_date, priority, created_at
		FROM tasks WHERE user_id = $1`, userKey)
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
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
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
		FROM tasks WHERE user_id = $1 AND id = $2`, userKey, id)
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
		UPDATE tasks SET title = $1, completed = $2, due_date = $3, priority = $4
		WHERE user_id = $5 AND id = $6`,
		t.Title, t.Completed, t.DueDate, string(t.Priority), userKey, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

func (s *Store) DeleteTask(userKey, id string) error {
	return s.deleteFrom("tasks", userKey, id)
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

// Habits

func (s *Store) ListHabits(userKey string) ([]models.Habit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, title, frequency, completed_dates, streak, created_at
		FROM habits WHERE user_id = $1`, userKey)
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

	frequency, err := json.Marshal(h.Frequency)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to encode frequency: %w", err)
	}
	completedDates, err := json.Marshal(h.CompletedDates)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to encode completed dates: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO habits (user_id, id, title, frequency, completed_dates, streak, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.UserID, h.ID, h.Title, string(frequency), string(completedDates), h.Streak,
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
		FROM habits WHERE user_id = $1 AND id = $2`, userKey, id)
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

	frequency, err := json.Marshal(h.Frequency)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to encode frequency: %w", err)
	}
	completedDates, err := json.Marshal(h.CompletedDates)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to encode completed dates: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE habits SET title = $1, frequency = $2, completed_dates = $3, streak = $4
		WHERE user_id = $5 AND id = $6`,
		h.Title, string(frequency), string(completedDates), h.Streak, userKey, id)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}
	return h, nil
}

func (s *Store) DeleteHabit(userKey, id string) error {
	return s.deleteFrom("habits", userKey, id)
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

// Transactions

func (s *Store) ListTransactions(userKey string) ([]models.Transaction, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, amount, category, date, type, description, created_at
		FROM transactions WHERE user_id = $1`, userKey)
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
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
		FROM transactions WHERE user_id = $1 AND id = $2`, userKey, id)
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
		UPDATE transactions SET amount = $1, category = $2, date = $3, type = $4, description = $5
		WHERE user_id = $6 AND id = $7`,
		t.Amount.String(), t.Category, t.Date, string(t.Type), t.Description, userKey, id)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to update transaction: %w", err)
	}
	return t, nil
}

func (s *Store) DeleteTransaction(userKey, id string) error {
	return s.deleteFrom("transactions", userKey, id)
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

// Time blocks

func (s *Store) ListTimeBlocks(userKey string) ([]models.TimeBlock, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, title, day, start_hour, duration, category
		FROM time_blocks WHERE user_id = $1`, userKey)
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
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
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
		FROM time_blocks WHERE user_id = $1 AND id = $2`, userKey, id)
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
		UPDATE time_blocks SET title = $1, day = $2, start_hour = $3, duration = $4, category = $5
		WHERE user_id = $6 AND id = $7`,
		b.Title, b.Day, b.StartHour, b.Duration, string(b.Category), userKey, id)
	if err != nil {
		return models.TimeBlock{}, fmt.Errorf("failed to update time block: %w", err)
	}
	return b, nil
}

func (s *Store) DeleteTimeBlock(userKey, id string) error {
	return s.deleteFrom("time_blocks", userKey, id)
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

func (s *Store) deleteFrom(table, userKey, id string) error {
	if err := s.ready(); err != nil {
		return err
	}

	res, err := s.db.Exec("DELETE FROM "+table+" WHERE user_id = $1 AND id = $2", userKey, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
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
