// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/castwise/foundry/pkg/agent"
	ferrors "github.com/castwise/foundry/pkg/errors"
)

type chatRequest struct {
	Question  string             `json:"question"`
	Features  map[string]float64 `json:"features"`
	SessionID string             `json:"session_id"`
}

// handleChat validates the request then streams agent progress events as SSE.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, ferrors.New(ferrors.CodeInvalidInput, "malformed request body", err))
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeProblem(w, ferrors.New(ferrors.CodeInvalidInput, "question is required", nil))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, ferrors.New(ferrors.CodeInternal, "streaming not supported", nil))
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := s.agent.RunStream(r.Context(), agent.Request{
		Question:  req.Question,
		Features:  req.Features,
		SessionID: req.SessionID,
	})
	for ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			s.logger.WarnContext(r.Context(), "marshal event", "type", string(ev.Type), "error", err)
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			// Client went away; drain silently.
			return
		}
		flusher.Flush()
	}
}

type sessionRequest struct {
	UserID string `json:"user_id"`
}

// handleCreateSession mints an opaque session id for a client.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	req := sessionRequest{UserID: "anonymous"}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, ferrors.New(ferrors.CodeInvalidInput, "malformed request body", err))
			return
		}
		if req.UserID == "" {
			req.UserID = "anonymous"
		}
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": fmt.Sprintf("sess_%s_%s", req.UserID, suffix),
		"created_at": time.Now().UTC().Format(time.RFC3339),
	})
}

type kbIngestRequest struct {
	Action string `json:"action"`
	JobID  string `json:"job_id"`
}

// handleKBIngest proxies ingest actions to the knowledge-base backend.
func (s *Server) handleKBIngest(w http.ResponseWriter, r *http.Request) {
	if s.ingest == nil {
		writeProblem(w, &ferrors.FoundryError{
			Code:       ferrors.CodeInternal,
			Message:    "ingest backend not configured",
			StatusCode: http.StatusServiceUnavailable,
		})
		return
	}
	var req kbIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, ferrors.New(ferrors.CodeInvalidInput, "malformed request body", err))
		return
	}
	if req.Action == "" {
		writeProblem(w, ferrors.New(ferrors.CodeInvalidInput, "action is required", nil))
		return
	}
	writeJSON(w, http.StatusOK, s.ingest.Run(r.Context(), req.Action, req.JobID))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"agent":  "foundry-tool-use",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeProblem renders a FoundryError as an RFC 7807 problem document.
func writeProblem(w http.ResponseWriter, err *ferrors.FoundryError) {
	status := err.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"title":  string(err.Code),
		"detail": err.Message,
		"status": status,
	})
}
