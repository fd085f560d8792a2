// Package client keeps an in-memory copy of each resource collection in sync
// with a remote store using optimistic mutations: every change is applied
// locally first, then pushed; a failed push rolls the local change back and
// records the error for the caller to surface.
package client

import (
	"context"
	"sync"

	"github.com/mbenson/tracker/internal/storage"
)

// Resource is any record with a stable identifier unique within a user scope.
type Resource interface {
	RecordID() string
}

// Remote is the store a collection syncs against. Exactly one remote attempt
// is made per mutation; retries are the caller's business.
type Remote[T Resource] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, item T) error
	Update(ctx context.Context, item T) error
	Delete(ctx context.Context, id string) error
}

// Collection holds the session-local copy of one resource kind. Memory
// mutations are atomic under the lock; remote calls happen outside it, so two
// racing mutations on the same record may confirm or roll back out of order.
// That race is accepted, matching single-store semantics.
type Collection[T Resource] struct {
	remote       Remote[T]
	insertAtHead bool

	mu      sync.Mutex
	items   []T
	loading bool
	lastErr error
}

// NewCollection creates an empty collection. insertAtHead controls where
// optimistic creates land; recency-ordered kinds insert at the head.
func NewCollection[T Resource](remote Remote[T], insertAtHead bool) *Collection[T] {
	return &Collection[T]{remote: remote, insertAtHead: insertAtHead}
}

// Load fetches the full remote collection and replaces the local copy. On
// failure the local copy is left as is and the error is recorded.
func (c *Collection[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	items, err := c.remote.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.lastErr = err
		return err
	}
	c.items = items
	c.lastErr = nil
	return nil
}

// Create inserts the item locally before pushing it to the remote. The caller
// supplies the id (and timestamps) so the local record matches what the store
// will hold, with no reconcile round trip. On remote failure the inserted
// item is removed again.
func (c *Collection[T]) Create(ctx context.Context, item T) error {
	c.mu.Lock()
	if c.insertAtHead {
		c.items = append([]T{item}, c.items...)
	} else {
		c.items = append(c.items, item)
	}
	c.mu.Unlock()

	if err := c.remote.Create(ctx, item); err != nil {
		c.mu.Lock()
		c.removeLocked(item.RecordID())
		c.lastErr = err
		c.mu.Unlock()
		return err
	}
	return nil
}

// Update replaces the held record with mutate(record) locally, then pushes
// the new value. On remote failure the previous value is restored.
func (c *Collection[T]) Update(ctx context.Context, id string, mutate func(T) T) error {
	c.mu.Lock()
	idx := c.indexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return storage.ErrNotFound
	}
	prev := c.items[idx]
	next := mutate(prev)
	c.items[idx] = next
	c.mu.Unlock()

	if err := c.remote.Update(ctx, next); err != nil {
		c.mu.Lock()
		if i := c.indexLocked(id); i >= 0 {
			c.items[i] = prev
		}
		c.lastErr = err
		c.mu.Unlock()
		return err
	}
	return nil
}

// Delete removes the record locally, then remotely. On remote failure the
// record is re-inserted; its position is not guaranteed to match.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	idx := c.indexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return storage.ErrNotFound
	}
	removed := c.items[idx]
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.mu.Unlock()

	if err := c.remote.Delete(ctx, id); err != nil {
		c.mu.Lock()
		c.items = append(c.items, removed)
		c.lastErr = err
		c.mu.Unlock()
		return err
	}
	return nil
}

// Get returns the held record with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if idx := c.indexLocked(id); idx >= 0 {
		return c.items[idx], true
	}
	return zero, false
}

// Snapshot returns a copy of the current collection, including optimistic
// not-yet-confirmed writes. Derived views always compute from a snapshot.
func (c *Collection[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the current collection size.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Loading reports whether an initial load is in flight.
func (c *Collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last recorded sync error, if any.
func (c *Collection[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ClearErr resets the recorded sync error once the caller has surfaced it.
func (c *Collection[T]) ClearErr() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = nil
}

func (c *Collection[T]) indexLocked(id string) int {
	for i, item := range c.items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) removeLocked(id string) {
	if idx := c.indexLocked(id); idx >= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}
}
