package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage/sqlite"
)

func newTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracker.db")
	store := sqlite.NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("init store: %v", err)
	}
	if _, err := store.CreateTask("alice", models.Task{Title: "keep me", Priority: models.PriorityLow}); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCreateAndList(t *testing.T) {
	dbPath := newTestDB(t)
	mgr := NewManager(dbPath)

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if backups[0].Size == 0 {
		t.Fatal("backup should not be empty")
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nope.db"))
	if _, err := mgr.Create(); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestListEmptyDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "tracker.db"))
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("expected no backups, got %d", len(backups))
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	dbPath := newTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Wreck the live database, then restore.
	if err := os.WriteFile(dbPath, []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("restore: %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("restored database unusable: %v", err)
	}
	defer store.Close()
	tasks, err := store.ListTasks("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Title != "keep me" {
		t.Fatalf("restored data mismatch: %+v", tasks)
	}
}

func TestRestoreRejectsCorruptBackup(t *testing.T) {
	dbPath := newTestDB(t)
	mgr := NewManager(dbPath)

	bad := filepath.Join(t.TempDir(), "tracker-20260101-0000.db")
	if err := os.WriteFile(bad, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Restore(bad); err == nil {
		t.Fatal("expected error for corrupt backup")
	}
}

func TestXlsxSuffixFollowsSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tracker.xlsx")
	if err := os.WriteFile(src, []byte("workbook bytes"), 0600); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(src)
	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Ext(path) != ".xlsx" {
		t.Fatalf("expected .xlsx snapshot, got %s", path)
	}
}

func TestParseStamp(t *testing.T) {
	if _, ok := parseStamp("20260901-1030"); !ok {
		t.Fatal("minute stamp should parse")
	}
	if _, ok := parseStamp("20260901-103045"); !ok {
		t.Fatal("second stamp should parse")
	}
	if _, ok := parseStamp("20260901-103045-2"); !ok {
		t.Fatal("counter stamp should parse")
	}
	if _, ok := parseStamp("notastamp"); ok {
		t.Fatal("garbage should not parse")
	}
}
