package database

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestRecordAndQuery(t *testing.T) {
	h := openTestDB(t)

	events := []struct{ action, path, objectType string }{
		{ActionDelete, "/proj/build/a.txt", "file"},
		{ActionDelete, "/proj/build", "folder"},
		{ActionMissing, "/proj/build/gone.txt", "file"},
	}
	for _, e := range events {
		if err := h.RecordDeletion(e.action, e.path, e.objectType, "delete", ""); err != nil {
			t.Fatalf("RecordDeletion(%s): %v", e.path, err)
		}
	}

	records, err := h.Query(Filter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}

func TestQueryActionFilter(t *testing.T) {
	h := openTestDB(t)

	if err := h.RecordDeletion(ActionDelete, "/proj/a.txt", "file", "delete", ""); err != nil {
		t.Fatalf("RecordDeletion: %v", err)
	}
	if err := h.RecordDeletion(ActionError, "/proj/locked.txt", "file", "delete", "permission denied"); err != nil {
		t.Fatalf("RecordDeletion: %v", err)
	}

	records, err := h.Query(Filter{Action: ActionError})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 error record, got %d", len(records))
	}
	if records[0].Path != "/proj/locked.txt" || records[0].Error != "permission denied" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestQueryLimitAndOrder(t *testing.T) {
	h := openTestDB(t)

	for _, p := range []string{"/a", "/b", "/c"} {
		if err := h.RecordDeletion(ActionDelete, p, "file", "delete", ""); err != nil {
			t.Fatalf("RecordDeletion: %v", err)
		}
	}

	records, err := h.Query(Filter{Limit: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Most recent first; equal timestamps fall back to insertion order.
	if records[0].Path != "/c" {
		t.Errorf("expected /c first, got %s", records[0].Path)
	}
}

func TestQuerySinceFilter(t *testing.T) {
	h := openTestDB(t)

	if err := h.RecordDeletion(ActionDelete, "/old", "file", "delete", ""); err != nil {
		t.Fatalf("RecordDeletion: %v", err)
	}

	records, err := h.Query(Filter{Since: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records after future cutoff, got %d", len(records))
	}
}
