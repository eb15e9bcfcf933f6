// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore implements Store with in-process storage.
// Suitable for single-instance deployments; data is lost on restart.
// Sessions are created lazily and live for the process lifetime.
type InMemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu       sync.Mutex
	messages []Message
}

// NewInMemoryStore creates an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*session)}
}

func (s *InMemoryStore) session(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{}
		s.sessions[id] = sess
	}
	return sess
}

// Append adds messages to the session.
func (s *InMemoryStore) Append(_ context.Context, sessionID string, msgs ...Message) error {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	for _, msg := range msgs {
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		if msg.SessionID == "" {
			msg.SessionID = sessionID
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now()
		}
		sess.messages = append(sess.messages, msg)
	}
	return nil
}

// Recent returns the last limit messages, oldest first.
func (s *InMemoryStore) Recent(_ context.Context, sessionID string, limit int) ([]Message, error) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	all := sess.messages
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	result := make([]Message, len(all))
	copy(result, all)
	return result, nil
}

// Trim drops the oldest messages so at most max remain.
func (s *InMemoryStore) Trim(_ context.Context, sessionID string, max int) error {
	if max <= 0 {
		return nil
	}
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.messages) > max {
		trimmed := make([]Message, max)
		copy(trimmed, sess.messages[len(sess.messages)-max:])
		sess.messages = trimmed
	}
	return nil
}

// Clear removes all messages for a session.
func (s *InMemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// MessageCount returns the number of messages in a session.
func (s *InMemoryStore) MessageCount(sessionID string) int {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.messages)
}

// Ensure InMemoryStore implements Store.
var _ Store = (*InMemoryStore)(nil)
