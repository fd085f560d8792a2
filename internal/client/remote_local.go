package client

import (
	"context"
	"sync"

	"github.com/mbenson/tracker/internal/localstore"
	"github.com/mbenson/tracker/internal/storage"
)

// LocalRemote satisfies Remote against the on-disk JSON fallback namespace,
// so the sync client works identically with or without a server. Each
// mutation rewrites the user's whole collection file, mirroring how the
// server-side spreadsheet backend persists.
type LocalRemote[T Resource] struct {
	store *localstore.Store
	user  string
	kind  string

	mu sync.Mutex
}

// NewLocalRemote creates a remote persisting under dir for one user and kind.
func NewLocalRemote[T Resource](dir, user, kind string) *LocalRemote[T] {
	return &LocalRemote[T]{store: localstore.New(dir), user: user, kind: kind}
}

func (r *LocalRemote[T]) List(_ context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *LocalRemote[T]) Create(_ context.Context, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load()
	if err != nil {
		return err
	}
	for _, existing := range items {
		if existing.RecordID() == item.RecordID() {
			return storage.ErrConflict
		}
	}
	r.store.Save(r.user, r.kind, append(items, item))
	return nil
}

func (r *LocalRemote[T]) Update(_ context.Context, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load()
	if err != nil {
		return err
	}
	for i, existing := range items {
		if existing.RecordID() == item.RecordID() {
			items[i] = item
			r.store.Save(r.user, r.kind, items)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (r *LocalRemote[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load()
	if err != nil {
		return err
	}
	for i, existing := range items {
		if existing.RecordID() == id {
			r.store.Save(r.user, r.kind, append(items[:i], items[i+1:]...))
			return nil
		}
	}
	return storage.ErrNotFound
}

func (r *LocalRemote[T]) load() ([]T, error) {
	items := []T{}
	if err := r.store.Load(r.user, r.kind, &items); err != nil {
		return nil, err
	}
	return items, nil
}
