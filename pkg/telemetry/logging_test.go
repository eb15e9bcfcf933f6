// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/castwise/foundry/pkg/core"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJSONHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSlogHandler(&buf, "info", "json"))

	logger.InfoContext(context.Background(), "agent.run.start", slog.String("run_id", "run-1"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["msg"] != "agent.run.start" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["run_id"] != "run-1" {
		t.Errorf("run_id = %v", record["run_id"])
	}
	// No active span, so no trace ids should be stamped.
	if _, ok := record["trace_id"]; ok {
		t.Error("trace_id stamped without an active span")
	}
}

func TestContextIDsStamped(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSlogHandler(&buf, "info", "json"))

	ctx := core.WithRunID(context.Background(), "run-9")
	ctx = core.WithSessionID(ctx, "sess-9")
	logger.InfoContext(ctx, "tool dispatched")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["run_id"] != "run-9" {
		t.Errorf("run_id = %v", record["run_id"])
	}
	if record["session_id"] != "sess-9" {
		t.Errorf("session_id = %v", record["session_id"])
	}
}

func TestExplicitAttrWinsOverContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSlogHandler(&buf, "info", "json"))

	ctx := core.WithRunID(context.Background(), "run-from-ctx")
	logger.InfoContext(ctx, "override", slog.String("run_id", "run-explicit"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["run_id"] != "run-explicit" {
		t.Errorf("run_id = %v, explicit attribute should win", record["run_id"])
	}
}
