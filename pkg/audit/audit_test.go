package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	event := Event{
		RunID:     "run-1",
		SessionID: "sess-1",
		Tool:      "predict_quality",
		Input:     map[string]any{"features": map[string]any{"molten_temp": 650.0}},
		Result:    map[string]any{"prediction": map[string]any{"class": "normal"}},
		Status:    "ok",
		StartedAt: time.Now().UTC(),
	}
	if err := store.Record(context.Background(), event); err != nil {
		t.Fatalf("record: %v", err)
	}
	events, err := store.List(context.Background(), Filter{RunID: "run-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Tool != "predict_quality" {
		t.Fatalf("unexpected tool: %s", events[0].Tool)
	}

	events, err = store.List(context.Background(), Filter{RunID: "run-other"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("filter should exclude other runs, got %d", len(events))
	}
}

func TestSQLiteStore(t *testing.T) {
	db, err := sql.Open("sqlite", "file:tool_audit_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{RunID: "run-1", SessionID: "sess-1", Tool: "predict_quality", Status: "ok", StartedAt: base, FinishedAt: base.Add(time.Second)},
		{RunID: "run-1", SessionID: "sess-1", Tool: "analyze_feature_importance", Status: "ok", StartedAt: base.Add(2 * time.Second)},
		{RunID: "run-2", SessionID: "sess-2", Tool: "search_knowledge_base", Status: "error", StartedAt: base.Add(3 * time.Second)},
	}
	for _, ev := range events {
		ev.Input = map[string]any{"q": ev.Tool}
		if err := store.Record(context.Background(), ev); err != nil {
			t.Fatalf("record %s: %v", ev.Tool, err)
		}
	}

	got, err := store.List(context.Background(), Filter{RunID: "run-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events for run-1, got %d", len(got))
	}
	if got[0].Tool != "predict_quality" || got[1].Tool != "analyze_feature_importance" {
		t.Fatalf("events out of order: %s, %s", got[0].Tool, got[1].Tool)
	}
	if got[0].Input["q"] != "predict_quality" {
		t.Fatalf("input round trip failed: %v", got[0].Input)
	}

	got, err = store.List(context.Background(), Filter{Status: "error"})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(got) != 1 || got[0].RunID != "run-2" {
		t.Fatalf("status filter mismatch: %+v", got)
	}

	got, err = store.List(context.Background(), Filter{Limit: 1})
	if err != nil {
		t.Fatalf("list with limit: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("limit not applied, got %d", len(got))
	}
}

func TestNopStore(t *testing.T) {
	var store NopStore
	if err := store.Record(context.Background(), Event{RunID: "run-1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	events, err := store.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("nop store retained events: %d", len(events))
	}
}
