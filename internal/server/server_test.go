package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbenson/tracker/internal/constants"
	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage/sqlite"
)

func newTestServer(t *testing.T, allowAnonymous bool) *httptest.Server {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "tracker.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ts := httptest.NewServer(New(store, allowAnonymous).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func request(t *testing.T, ts *httptest.Server, method, path, user string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if user != "" {
		req.Header.Set(constants.HeaderUserID, user)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var v T
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestMissingIdentityRejected(t *testing.T) {
	ts := newTestServer(t, false)

	res := request(t, ts, http.MethodGet, "/api/tasks", "", nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
	body := decode[map[string]string](t, res)
	if body["error"] == "" {
		t.Fatal("expected error message in body")
	}
}

func TestAnonymousFallbackScope(t *testing.T) {
	ts := newTestServer(t, true)

	res := request(t, ts, http.MethodPost, "/api/tasks", "", models.Task{Title: "shared", Priority: models.PriorityLow})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	created := decode[models.Task](t, res)
	if created.UserID != constants.DefaultScope {
		t.Fatalf("expected default scope, got %q", created.UserID)
	}
}

func TestTaskCRUD(t *testing.T) {
	ts := newTestServer(t, false)

	res := request(t, ts, http.MethodPost, "/api/tasks", "alice", models.Task{Title: "Write report", Priority: models.PriorityHigh, DueDate: "2026-09-02"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", res.StatusCode)
	}
	created := decode[models.Task](t, res)
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("server must stamp id and createdAt: %+v", created)
	}

	res = request(t, ts, http.MethodGet, "/api/tasks", "alice", nil)
	tasks := decode[[]models.Task](t, res)
	if len(tasks) != 1 || tasks[0].Title != "Write report" {
		t.Fatalf("unexpected list: %+v", tasks)
	}

	completed := true
	res = request(t, ts, http.MethodPut, "/api/tasks/"+created.ID, "alice", models.TaskPatch{Completed: &completed})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", res.StatusCode)
	}
	updated := decode[models.Task](t, res)
	if !updated.Completed || updated.Title != "Write report" {
		t.Fatalf("patch must merge, not replace: %+v", updated)
	}

	res = request(t, ts, http.MethodDelete, "/api/tasks/"+created.ID, "alice", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", res.StatusCode)
	}
	if body := decode[map[string]bool](t, res); !body["success"] {
		t.Fatal("expected success body")
	}

	res = request(t, ts, http.MethodGet, "/api/tasks", "alice", nil)
	if tasks := decode[[]models.Task](t, res); len(tasks) != 0 {
		t.Fatalf("expected empty list, got %+v", tasks)
	}
}

func TestScopeIsolation(t *testing.T) {
	ts := newTestServer(t, false)

	res := request(t, ts, http.MethodPost, "/api/tasks", "alice", models.Task{Title: "private", Priority: models.PriorityMedium})
	created := decode[models.Task](t, res)

	res = request(t, ts, http.MethodGet, "/api/tasks", "bob", nil)
	if tasks := decode[[]models.Task](t, res); len(tasks) != 0 {
		t.Fatalf("bob must not see alice's tasks: %+v", tasks)
	}

	res = request(t, ts, http.MethodDelete, "/api/tasks/"+created.ID, "bob", nil)
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("cross-scope delete: expected 404, got %d", res.StatusCode)
	}

	res = request(t, ts, http.MethodGet, "/api/tasks", "alice", nil)
	if tasks := decode[[]models.Task](t, res); len(tasks) != 1 {
		t.Fatalf("alice's task must survive: %+v", tasks)
	}
}

func TestValidationFailureIs400(t *testing.T) {
	ts := newTestServer(t, false)

	res := request(t, ts, http.MethodPost, "/api/tasks", "alice", models.Task{Priority: models.PriorityLow})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	body := decode[map[string]string](t, res)
	if body["error"] == "" {
		t.Fatal("expected error message")
	}
}

func TestDuplicateIDIs409(t *testing.T) {
	ts := newTestServer(t, false)

	first := models.Task{ID: "client-1", Title: "one", Priority: models.PriorityLow}
	res := request(t, ts, http.MethodPost, "/api/tasks", "alice", first)
	res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	res = request(t, ts, http.MethodPost, "/api/tasks", "alice", first)
	res.Body.Close()
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", res.StatusCode)
	}
}

func TestUnknownRecordIs404(t *testing.T) {
	ts := newTestServer(t, false)

	title := "x"
	res := request(t, ts, http.MethodPut, "/api/tasks/nope", "alice", models.TaskPatch{Title: &title})
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("update: expected 404, got %d", res.StatusCode)
	}

	res = request(t, ts, http.MethodDelete, "/api/habits/nope", "alice", nil)
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("delete: expected 404, got %d", res.StatusCode)
	}
}

func TestFullRecordUpdateClearsOptionalFields(t *testing.T) {
	ts := newTestServer(t, false)

	res := request(t, ts, http.MethodPost, "/api/tasks", "alice", models.Task{
		Title: "Write report", Priority: models.PriorityHigh, DueDate: "2026-09-02",
	})
	created := decode[models.Task](t, res)

	// A syncing client pushes the whole record, so an emptied due date must
	// reach the merge instead of being dropped during encoding.
	cleared := created
	cleared.DueDate = ""
	res = request(t, ts, http.MethodPut, "/api/tasks/"+created.ID, "alice", cleared)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", res.StatusCode)
	}
	updated := decode[models.Task](t, res)
	if updated.DueDate != "" {
		t.Fatalf("expected due date cleared, got %q", updated.DueDate)
	}

	res = request(t, ts, http.MethodPost, "/api/finance", "alice", map[string]any{
		"amount":      "10.00",
		"category":    "Misc",
		"date":        todayString(),
		"type":        "expense",
		"description": "temp note",
	})
	tx := decode[models.Transaction](t, res)

	txCleared := tx
	txCleared.Description = ""
	res = request(t, ts, http.MethodPut, "/api/finance/"+tx.ID, "alice", txCleared)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", res.StatusCode)
	}
	txUpdated := decode[models.Transaction](t, res)
	if txUpdated.Description != "" {
		t.Fatalf("expected description cleared, got %q", txUpdated.Description)
	}
}

func TestHabitStreakServerSide(t *testing.T) {
	ts := newTestServer(t, false)
	today := todayString()

	habit := models.Habit{
		Title:          "Read",
		Frequency:      []string{constants.FrequencyDaily},
		CompletedDates: []string{today},
		Streak:         99, // client value must be ignored
	}
	res := request(t, ts, http.MethodPost, "/api/habits", "alice", habit)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	created := decode[models.Habit](t, res)
	if created.Streak != 1 {
		t.Fatalf("expected recomputed streak 1, got %d", created.Streak)
	}

	empty := []string{}
	res = request(t, ts, http.MethodPut, "/api/habits/"+created.ID, "alice", models.HabitPatch{CompletedDates: &empty})
	updated := decode[models.Habit](t, res)
	if updated.Streak != 0 {
		t.Fatalf("expected streak reset to 0, got %d", updated.Streak)
	}
}

func TestFinanceAndPlannerRoutes(t *testing.T) {
	ts := newTestServer(t, false)

	res := request(t, ts, http.MethodPost, "/api/finance", "alice", map[string]any{
		"amount":   "42.50",
		"category": "Groceries",
		"date":     todayString(),
		"type":     "expense",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("finance create: expected 201, got %d", res.StatusCode)
	}
	tx := decode[models.Transaction](t, res)
	if !tx.Amount.Equal(decimal.RequireFromString("42.50")) {
		t.Fatalf("unexpected amount %s", tx.Amount)
	}

	res = request(t, ts, http.MethodPost, "/api/planner", "alice", models.TimeBlock{
		Title: "Deep work", Day: "Monday", StartHour: 9, Duration: 2, Category: models.BlockWork,
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("planner create: expected 201, got %d", res.StatusCode)
	}
	block := decode[models.TimeBlock](t, res)

	res = request(t, ts, http.MethodDelete, "/api/planner/"+block.ID, "alice", nil)
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("planner delete: expected 200, got %d", res.StatusCode)
	}
}

func TestMalformedBodyIs400(t *testing.T) {
	ts := newTestServer(t, false)

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/tasks", bytes.NewBufferString("{not json"))
	req.Header.Set(constants.HeaderUserID, "alice")
	req.Header.Set("Content-Type", "application/json")
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}

func TestHealthNeedsNoIdentity(t *testing.T) {
	ts := newTestServer(t, false)

	res := request(t, ts, http.MethodGet, "/api/health", "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if body := decode[map[string]string](t, res); body["status"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
}

func todayString() string {
	return time.Now().Format(constants.DateFormat)
}
