// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package memory provides bounded per-session conversation storage.
//
// Only plain user/assistant text turns are persisted here; tool-call
// scaffolding lives and dies with a single agent run.
package memory

import (
	"context"
	"time"
)

// Message is one persisted conversation turn.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store stores and retrieves ordered conversation history per session.
// Implementations serialize read-modify-write operations per session id,
// so concurrent requests against the same session cannot lose updates.
type Store interface {
	// Append adds messages to the session, creating it on first use.
	Append(ctx context.Context, sessionID string, msgs ...Message) error

	// Recent returns the last limit messages for a session, oldest first.
	// A limit <= 0 returns all messages.
	Recent(ctx context.Context, sessionID string, limit int) ([]Message, error)

	// Trim drops the oldest messages so at most max remain.
	Trim(ctx context.Context, sessionID string, max int) error

	// Clear removes all messages for a session.
	Clear(ctx context.Context, sessionID string) error
}
