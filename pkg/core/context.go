// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package core provides shared identifiers and context plumbing.
package core

import (
	"context"

	"github.com/google/uuid"
)

type runIDKey struct{}
type sessionIDKey struct{}

// DefaultSessionID is used when a client does not supply a session id.
const DefaultSessionID = "default"

// WithRunID attaches a run id to the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id if present.
func RunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok
}

// EnsureRunID ensures a run id exists in the context.
func EnsureRunID(ctx context.Context) (context.Context, string) {
	if id, ok := RunID(ctx); ok {
		return ctx, id
	}
	id := "run-" + uuid.NewString()
	return WithRunID(ctx, id), id
}

// WithSessionID attaches a session id to the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionID returns the session id if present.
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey{}).(string)
	return id, ok
}

// EnsureSessionID ensures a session id exists in the context,
// falling back to DefaultSessionID semantics with a fresh id.
func EnsureSessionID(ctx context.Context) (context.Context, string) {
	if id, ok := SessionID(ctx); ok && id != "" {
		return ctx, id
	}
	id := "sess-" + uuid.NewString()
	return WithSessionID(ctx, id), id
}
