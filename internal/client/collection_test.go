package client

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
)

// fakeRemote records the server-side collection and can be told to fail the
// next mutation, to exercise rollback.
type fakeRemote struct {
	items   []models.Task
	listErr error
	failErr error

	creates int
	updates int
	deletes int
}

func (f *fakeRemote) List(context.Context) ([]models.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Task, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeRemote) Create(_ context.Context, item models.Task) error {
	f.creates++
	if f.failErr != nil {
		return f.failErr
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeRemote) Update(_ context.Context, item models.Task) error {
	f.updates++
	if f.failErr != nil {
		return f.failErr
	}
	for i := range f.items {
		if f.items[i].ID == item.ID {
			f.items[i] = item
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeRemote) Delete(_ context.Context, id string) error {
	f.deletes++
	if f.failErr != nil {
		return f.failErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func task(id, title string) models.Task {
	return models.Task{ID: id, UserID: "u1", Title: title, Priority: models.PriorityMedium}
}

func TestLoadReplacesLocalCopy(t *testing.T) {
	remote := &fakeRemote{items: []models.Task{task("a", "one"), task("b", "two")}}
	col := NewCollection[models.Task](remote, true)

	if err := col.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if col.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", col.Len())
	}
	if col.Loading() {
		t.Fatal("loading should be false after load")
	}
}

func TestLoadFailureKeepsLocalCopy(t *testing.T) {
	remote := &fakeRemote{items: []models.Task{task("a", "one")}}
	col := NewCollection[models.Task](remote, true)
	if err := col.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	remote.listErr = errors.New("connection refused")
	if err := col.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if col.Len() != 1 {
		t.Fatalf("failed load must leave items alone, got %d", col.Len())
	}
	if col.Err() == nil {
		t.Fatal("expected recorded error")
	}
}

func TestCreateInsertsAtHead(t *testing.T) {
	remote := &fakeRemote{items: []models.Task{task("a", "old")}}
	col := NewCollection[models.Task](remote, true)
	if err := col.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := col.Create(context.Background(), task("b", "new")); err != nil {
		t.Fatalf("create: %v", err)
	}
	items := col.Snapshot()
	if items[0].ID != "b" {
		t.Fatalf("expected new item at head, got %q", items[0].ID)
	}
	if len(remote.items) != 2 {
		t.Fatalf("remote should hold 2 items, got %d", len(remote.items))
	}
}

func TestCreateRollbackRestoresExactCollection(t *testing.T) {
	remote := &fakeRemote{items: []models.Task{task("a", "one"), task("b", "two")}}
	col := NewCollection[models.Task](remote, true)
	if err := col.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := col.Snapshot()

	remote.failErr = errors.New("boom")
	if err := col.Create(context.Background(), task("c", "doomed")); err == nil {
		t.Fatal("expected create error")
	}

	after := col.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("rollback must restore prior collection\nbefore: %+v\nafter:  %+v", before, after)
	}
	if col.Err() == nil {
		t.Fatal("expected recorded error")
	}
	if remote.creates != 1 {
		t.Fatalf("expected exactly one remote attempt, got %d", remote.creates)
	}
}

func TestUpdateRollbackRestoresPreviousValue(t *testing.T) {
	remote := &fakeRemote{items: []models.Task{task("a", "original")}}
	col := NewCollection[models.Task](remote, true)
	if err := col.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := col.Snapshot()

	remote.failErr = errors.New("boom")
	err := col.Update(context.Background(), "a", func(tk models.Task) models.Task {
		tk.Title = "changed"
		tk.Completed = true
		return tk
	})
	if err == nil {
		t.Fatal("expected update error")
	}

	if !reflect.DeepEqual(before, col.Snapshot()) {
		t.Fatal("rollback must restore previous record value")
	}
	if remote.updates != 1 {
		t.Fatalf("expected exactly one remote attempt, got %d", remote.updates)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	col := NewCollection[models.Task](&fakeRemote{}, true)
	err := col.Update(context.Background(), "missing", func(tk models.Task) models.Task { return tk })
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRollbackReinsertsRecord(t *testing.T) {
	remote := &fakeRemote{items: []models.Task{task("a", "one"), task("b", "two")}}
	col := NewCollection[models.Task](remote, true)
	if err := col.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	remote.failErr = errors.New("boom")
	if err := col.Delete(context.Background(), "a"); err == nil {
		t.Fatal("expected delete error")
	}

	// Record must be back; position is not guaranteed.
	if _, ok := col.Get("a"); !ok {
		t.Fatal("rollback must re-insert the removed record")
	}
	if col.Len() != 2 {
		t.Fatalf("expected 2 items after rollback, got %d", col.Len())
	}
}

func TestDeleteSuccess(t *testing.T) {
	remote := &fakeRemote{items: []models.Task{task("a", "one")}}
	col := NewCollection[models.Task](remote, true)
	if err := col.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := col.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if col.Len() != 0 || len(remote.items) != 0 {
		t.Fatal("delete should remove locally and remotely")
	}
}

func TestClearErr(t *testing.T) {
	remote := &fakeRemote{failErr: errors.New("boom")}
	col := NewCollection[models.Task](remote, true)
	_ = col.Create(context.Background(), task("a", "one"))
	if col.Err() == nil {
		t.Fatal("expected recorded error")
	}
	col.ClearErr()
	if col.Err() != nil {
		t.Fatal("ClearErr should reset the recorded error")
	}
}

func TestLocalRemoteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	remote := NewLocalRemote[models.Task](dir, "u1", "tasks")
	ctx := context.Background()

	if err := remote.Create(ctx, task("a", "one")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := remote.Create(ctx, task("a", "dup")); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	updated := task("a", "renamed")
	if err := remote.Update(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	items, err := remote.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Title != "renamed" {
		t.Fatalf("unexpected items: %+v", items)
	}

	// A second remote over the same directory sees persisted state.
	other := NewLocalRemote[models.Task](dir, "u1", "tasks")
	items, err = other.List(ctx)
	if err != nil || len(items) != 1 {
		t.Fatalf("reload: %v (%d items)", err, len(items))
	}

	if err := remote.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := remote.Delete(ctx, "a"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalRemoteScopeIsolation(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	alice := NewLocalRemote[models.Task](dir, "alice", "tasks")
	bob := NewLocalRemote[models.Task](dir, "bob", "tasks")

	if err := alice.Create(ctx, task("a", "mine")); err != nil {
		t.Fatal(err)
	}
	items, err := bob.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("bob must not see alice's tasks, got %d", len(items))
	}
}
