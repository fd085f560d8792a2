package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mbenson/tracker/internal/constants"
	"github.com/mbenson/tracker/internal/models"
)

func TestKeyNamespacing(t *testing.T) {
	got := Key("alice", constants.KindTasks)
	want := "tracker_alice_tasks.json"
	if got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}

	// Path separators in a scope key must not escape the data directory.
	if k := Key("../evil", constants.KindTasks); filepath.Dir(k) != "." {
		t.Errorf("sanitized key still contains a path separator: %q", k)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	in := []models.Task{
		{ID: "t1", UserID: "alice", Title: "one", Priority: models.PriorityLow},
		{ID: "t2", UserID: "alice", Title: "two", Priority: models.PriorityHigh},
	}
	s.Save("alice", constants.KindTasks, in)

	var out []models.Task
	if err := s.Load("alice", constants.KindTasks, &out); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(out) != 2 || out[0].ID != "t1" || out[1].Title != "two" {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestLoadMissingFileLeavesDefault(t *testing.T) {
	s := New(t.TempDir())

	out := []models.Task{{ID: "sentinel"}}
	if err := s.Load("nobody", constants.KindTasks, &out); err != nil {
		t.Fatalf("Load() of missing collection failed: %v", err)
	}
	if len(out) != 1 || out[0].ID != "sentinel" {
		t.Errorf("expected default preserved, got %+v", out)
	}
}

func TestCollectionsAreIsolatedByUser(t *testing.T) {
	s := New(t.TempDir())

	s.Save("alice", constants.KindTasks, []models.Task{{ID: "a"}})
	s.Save("bob", constants.KindTasks, []models.Task{{ID: "b"}})

	var alice, bob []models.Task
	if err := s.Load("alice", constants.KindTasks, &alice); err != nil {
		t.Fatal(err)
	}
	if err := s.Load("bob", constants.KindTasks, &bob); err != nil {
		t.Fatal(err)
	}
	if len(alice) != 1 || alice[0].ID != "a" {
		t.Errorf("alice sees %+v", alice)
	}
	if len(bob) != 1 || bob[0].ID != "b" {
		t.Errorf("bob sees %+v", bob)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	s.Save("alice", constants.KindHabits, []models.Habit{{ID: "h"}})
	if err := s.Remove("alice", constants.KindHabits); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, Key("alice", constants.KindHabits))); !os.IsNotExist(err) {
		t.Error("expected collection file removed")
	}
	// Removing twice is fine.
	if err := s.Remove("alice", constants.KindHabits); err != nil {
		t.Errorf("second Remove() failed: %v", err)
	}
}
