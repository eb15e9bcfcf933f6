// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package audit persists a durable trail of every capability invocation the
// agent loop performs, keyed by run and session.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Event is one recorded tool invocation.
type Event struct {
	RunID      string         `json:"run_id"`
	SessionID  string         `json:"session_id"`
	Tool       string         `json:"tool"`
	Input      map[string]any `json:"input"`
	Result     map[string]any `json:"result"`
	Status     string         `json:"status"` // ok, error
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Filter limits audit event queries.
type Filter struct {
	RunID     string
	SessionID string
	Tool      string
	Status    string
	Limit     int
}

// Store persists tool-invocation audit events.
type Store interface {
	Record(ctx context.Context, event Event) error
	List(ctx context.Context, filter Filter) ([]Event, error)
}

// NopStore discards every event. Used when auditing is disabled.
type NopStore struct{}

func (NopStore) Record(context.Context, Event) error { return nil }

func (NopStore) List(context.Context, Filter) ([]Event, error) { return nil, nil }

// MemoryStore keeps audit events in memory.
type MemoryStore struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryStore returns an in-memory audit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record appends an audit event.
func (s *MemoryStore) Record(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// List returns filtered audit events.
func (s *MemoryStore) List(_ context.Context, filter Filter) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		if !filter.matches(ev) {
			continue
		}
		out = append(out, ev)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (f Filter) matches(ev Event) bool {
	if f.RunID != "" && ev.RunID != f.RunID {
		return false
	}
	if f.SessionID != "" && ev.SessionID != f.SessionID {
		return false
	}
	if f.Tool != "" && ev.Tool != f.Tool {
		return false
	}
	if f.Status != "" && ev.Status != f.Status {
		return false
	}
	return true
}

func encodePayload(payload map[string]any) ([]byte, error) {
	if payload == nil {
		return []byte("null"), nil
	}
	return json.Marshal(payload)
}

func decodePayload(raw []byte) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
