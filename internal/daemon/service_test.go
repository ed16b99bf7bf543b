package daemon

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"smsledger/internal/config"
	"smsledger/internal/pipeline"
	"smsledger/internal/source"
	"smsledger/internal/store"
)

func seedArchive(t *testing.T, path string, msgs []source.RawMessage) {
	t.Helper()
	a, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = a.Close() }()
	if err := a.SaveMessages(msgs); err != nil {
		t.Fatalf("SaveMessages: %v", err)
	}
}

func testService(t *testing.T) (*Service, string) {
	t.Helper()
	archivePath := filepath.Join(t.TempDir(), "archive.db")
	seedArchive(t, archivePath, []source.RawMessage{
		{ID: "1", Timestamp: time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC), Body: "Rs.10000 credited to your account"},
		{ID: "2", Timestamp: time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC), Body: "Rs.6000 debited for rent"},
		{ID: "3", Timestamp: time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC), Body: "Rs.5000 credited to your account"},
		{ID: "4", Timestamp: time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC), Body: "Rs.700 debited via upi"},
	})

	svc := New(Config{
		ArchivePath: archivePath,
		Month:       time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		Interval:    time.Minute,
	}, pipeline.New(config.DefaultConfig()))

	return svc, archivePath
}

func TestPollOnce(t *testing.T) {
	svc, _ := testService(t)
	svc.pollOnce()

	status := svc.snapshotStatus()
	if status.LastError != "" {
		t.Fatalf("poll error: %s", status.LastError)
	}
	if status.PollCount != 1 {
		t.Errorf("poll count = %d, want 1", status.PollCount)
	}

	snap := status.Summary
	if snap.Month != "2025-10" {
		t.Errorf("month = %q, want 2025-10", snap.Month)
	}
	if snap.Transactions != 4 {
		t.Errorf("transactions = %d, want 4", snap.Transactions)
	}
	// Prior ratio 0.6, first week income 5000, budget 3000, spent 700.
	if snap.EstimatedBudget != 3000 {
		t.Errorf("estimated budget = %v, want 3000", snap.EstimatedBudget)
	}
	if snap.CumulativeExpense != 700 {
		t.Errorf("cumulative expense = %v, want 700", snap.CumulativeExpense)
	}
	if snap.RemainingBudget != 2300 {
		t.Errorf("remaining budget = %v, want 2300", snap.RemainingBudget)
	}
	if snap.ExceededCount != 0 {
		t.Errorf("exceeded count = %d, want 0", snap.ExceededCount)
	}

	if status.EventCount != 1 {
		t.Errorf("event count = %d, want the initial snapshot event", status.EventCount)
	}
}

func TestPollDeltaEvent(t *testing.T) {
	svc, archivePath := testService(t)
	svc.pollOnce()

	// Unchanged data publishes no new event.
	svc.pollOnce()
	if got := svc.snapshotStatus().EventCount; got != 1 {
		t.Fatalf("event count after unchanged poll = %d, want 1", got)
	}

	// A big new debit pushes spending past the budget.
	seedArchive(t, archivePath, []source.RawMessage{
		{ID: "5", Timestamp: time.Date(2025, 10, 3, 9, 0, 0, 0, time.UTC), Body: "Rs.4000 debited for travel"},
	})
	svc.pollOnce()

	status := svc.snapshotStatus()
	if status.EventCount != 2 {
		t.Fatalf("event count = %d, want 2", status.EventCount)
	}

	svc.mu.RLock()
	ev := svc.events[len(svc.events)-1]
	svc.mu.RUnlock()

	if ev.Type != "budget_delta" {
		t.Errorf("event type = %q, want budget_delta", ev.Type)
	}
	if ev.Delta.Transactions != 1 {
		t.Errorf("delta transactions = %d, want 1", ev.Delta.Transactions)
	}
	if ev.Delta.CumulativeExpense != 4000 {
		t.Errorf("delta cumulative = %v, want 4000", ev.Delta.CumulativeExpense)
	}
	if ev.Snapshot.ExceededCount == 0 {
		t.Error("snapshot should report an exceeded week")
	}
	if len(ev.Alerts) == 0 {
		t.Error("event should carry the exceeded alert messages")
	}
}

func TestPollErrorRecorded(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "empty.db")
	svc := New(Config{
		ArchivePath: archivePath,
		Month:       time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		Interval:    time.Minute,
	}, pipeline.New(config.DefaultConfig()))

	svc.pollOnce()

	status := svc.snapshotStatus()
	if status.LastError == "" {
		t.Error("empty archive should record a poll error")
	}
	if status.EventCount != 0 {
		t.Errorf("event count = %d, want 0 on error", status.EventCount)
	}
}

func TestHandleStatus(t *testing.T) {
	svc, _ := testService(t)
	svc.pollOnce()

	rec := httptest.NewRecorder()
	svc.handleStatus(rec, httptest.NewRequest("GET", "/v1/status", nil))

	if rec.Code != 200 {
		t.Fatalf("status code = %d", rec.Code)
	}
	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if status.Summary.Month != "2025-10" {
		t.Errorf("summary month = %q", status.Summary.Month)
	}
}

func TestHandleReport(t *testing.T) {
	svc, _ := testService(t)

	// Before the first poll there is nothing to serve.
	rec := httptest.NewRecorder()
	svc.handleReport(rec, httptest.NewRequest("GET", "/v1/report", nil))
	if rec.Code != 503 {
		t.Errorf("status before poll = %d, want 503", rec.Code)
	}

	svc.pollOnce()

	rec = httptest.NewRecorder()
	svc.handleReport(rec, httptest.NewRequest("GET", "/v1/report", nil))
	if rec.Code != 200 {
		t.Fatalf("status code = %d", rec.Code)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	for _, key := range []string{"monthly_summary", "weekly_summary", "weekly_alerts"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("report missing key %q", key)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	svc, _ := testService(t)

	rec := httptest.NewRecorder()
	svc.handleHealth(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != 200 || rec.Body.String() != "ok\n" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
}
