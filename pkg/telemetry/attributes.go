// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for Foundry agent telemetry.
// These follow OpenTelemetry naming conventions where applicable.
const (
	// Run attributes
	AttrRunID     = "foundry.run.id"
	AttrRunRound  = "foundry.run.round"
	AttrRunRounds = "foundry.run.max_rounds"

	// Session attributes
	AttrSessionID       = "foundry.session.id"
	AttrSessionMsgCount = "foundry.session.message_count"

	// Tool attributes
	AttrToolName       = "foundry.tool.name"
	AttrToolCallID     = "foundry.tool.call_id"
	AttrToolDurationMs = "foundry.tool.duration_ms"
	AttrToolSuccess    = "foundry.tool.success"

	// Planner attributes (extending standard gen_ai conventions)
	AttrPlannerModel      = "gen_ai.request.model"
	AttrPlannerStopReason = "gen_ai.finish_reason"
	AttrPlannerToolCalls  = "gen_ai.tool_calls"
	AttrPlannerDurationMs = "gen_ai.duration_ms"
)

// RunAttributes builds span attributes for one agent run.
func RunAttributes(runID, sessionID string, round, maxRounds int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
		attribute.String(AttrSessionID, sessionID),
		attribute.Int(AttrRunRound, round),
		attribute.Int(AttrRunRounds, maxRounds),
	}
}

// ToolCallAttributes builds span attributes for a tool invocation.
func ToolCallAttributes(name, callID string, durationMs float64, success bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrToolName, name),
		attribute.String(AttrToolCallID, callID),
		attribute.Float64(AttrToolDurationMs, durationMs),
		attribute.Bool(AttrToolSuccess, success),
	}
}

// PlannerAttributes builds span attributes for a planner round. The model is
// not known at this layer; the provider stamps AttrPlannerModel on its own
// span.
func PlannerAttributes(stopReason string, toolCalls int, durationMs float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrPlannerStopReason, stopReason),
		attribute.Int(AttrPlannerToolCalls, toolCalls),
		attribute.Float64(AttrPlannerDurationMs, durationMs),
	}
}
