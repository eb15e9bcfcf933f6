// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the agent loop over HTTP: a streaming chat endpoint,
// session creation, knowledge-base ingest passthrough, and liveness.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/castwise/foundry/pkg/agent"
	"github.com/castwise/foundry/pkg/tools"
)

// Server wires the HTTP surface over an Agent.
type Server struct {
	agent  *agent.Agent
	ingest *tools.IngestClient
	logger *slog.Logger
}

// New builds a Server. ingest may be nil when the ingest backend is not
// configured; the endpoint then answers 503.
func New(a *agent.Agent, ingest *tools.IngestClient) *Server {
	return &Server{
		agent:  a,
		ingest: ingest,
		logger: slog.Default().With("component", "server"),
	}
}

// Handler returns the routed HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("POST /api/kb-ingest", s.handleKBIngest)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withLogging(withCORS(mux))
}

// HTTPServer returns a configured http.Server listening on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// withCORS allows cross-origin browser clients; the dashboard is served from
// a different origin than the API.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
