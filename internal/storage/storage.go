// Package storage defines the per-user resource store contract shared by all
// persistence backends.
package storage

import (
	"errors"

	"github.com/google/uuid"

	"github.com/mbenson/tracker/internal/models"
)

var (
	// ErrNotFound is returned when no record matches (id, userKey). A record
	// owned by a different user is reported as not found, never leaked.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned by create when the client-supplied id already
	// exists within the user scope.
	ErrConflict = errors.New("record id already exists")

	// ErrNotLoaded is returned when a store is used before Init.
	ErrNotLoaded = errors.New("storage not initialized")
)

// Provider is the store contract. Every operation is scoped by a user key;
// records from other scopes are invisible. List order is implementation
// defined.
type Provider interface {
	Init() error
	Close() error

	ListTasks(userKey string) ([]models.Task, error)
	CreateTask(userKey string, t models.Task) (models.Task, error)
	UpdateTask(userKey, id string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(userKey, id string) error

	ListHabits(userKey string) ([]models.Habit, error)
	CreateHabit(userKey string, h models.Habit) (models.Habit, error)
	UpdateHabit(userKey, id string, patch models.HabitPatch) (models.Habit, error)
	DeleteHabit(userKey, id string) error

	ListTransactions(userKey string) ([]models.Transaction, error)
	CreateTransaction(userKey string, t models.Transaction) (models.Transaction, error)
	UpdateTransaction(userKey, id string, patch models.TransactionPatch) (models.Transaction, error)
	DeleteTransaction(userKey, id string) error

	ListTimeBlocks(userKey string) ([]models.TimeBlock, error)
	CreateTimeBlock(userKey string, b models.TimeBlock) (models.TimeBlock, error)
	UpdateTimeBlock(userKey, id string, patch models.TimeBlockPatch) (models.TimeBlock, error)
	DeleteTimeBlock(userKey, id string) error
}

// EnsureID returns id unchanged when the client generated one, otherwise a
// fresh UUID. Client-generated ids avoid a reconcile round trip after an
// optimistic create.
func EnsureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
