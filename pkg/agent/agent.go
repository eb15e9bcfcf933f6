// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent implements the planner/tool orchestration loop at the heart
// of Foundry. One run takes a user question plus the current process
// parameters, lets the planner request capability invocations for a bounded
// number of rounds, and produces a final Korean-language answer.
package agent

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/castwise/foundry/pkg/audit"
	"github.com/castwise/foundry/pkg/config"
	"github.com/castwise/foundry/pkg/llm"
	"github.com/castwise/foundry/pkg/memory"
	"github.com/castwise/foundry/pkg/telemetry"
	"github.com/castwise/foundry/pkg/tools"
)

// Request is one user turn handed to the loop.
type Request struct {
	Question  string             `json:"question"`
	Features  map[string]float64 `json:"features"`
	SessionID string             `json:"session_id"`
}

// ToolCall records one capability invocation of a run.
type ToolCall struct {
	Tool   string         `json:"tool"`
	Input  map[string]any `json:"input"`
	Result map[string]any `json:"result"`
}

// Result is the outcome of a blocking run.
type Result struct {
	Answer      string     `json:"answer"`
	ToolResults []ToolCall `json:"tool_results"`
}

// Agent orchestrates planner rounds and tool dispatch.
type Agent struct {
	provider llm.Provider
	registry *tools.Registry
	memory   memory.Store
	audit    audit.Store
	catalog  []llm.ToolSpec

	maxRounds  int
	maxHistory int

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *telemetry.AgentMetrics
}

// New builds an Agent. A nil audit store disables auditing; zero config
// values fall back to the defaults the service ships with.
func New(provider llm.Provider, registry *tools.Registry, store memory.Store, auditStore audit.Store, catalog []llm.ToolSpec, cfg config.AgentConfig) *Agent {
	if auditStore == nil {
		auditStore = audit.NopStore{}
	}
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = config.DefaultMaxRounds
	}
	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = config.DefaultMaxHistory
	}
	return &Agent{
		provider:   provider,
		registry:   registry,
		memory:     store,
		audit:      auditStore,
		catalog:    catalog,
		maxRounds:  maxRounds,
		maxHistory: maxHistory,
		logger:     slog.Default().With("component", "agent"),
		tracer:     otel.Tracer("foundry/agent"),
		metrics:    telemetry.Metrics(),
	}
}
