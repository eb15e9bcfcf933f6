// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"math"

	"github.com/castwise/foundry/pkg/tools"
)

// EventType identifies one kind of progress event.
type EventType string

const (
	EventStatus   EventType = "status"
	EventThinking EventType = "thinking"

	EventToolStart EventType = "tool_start"
	EventToolEnd   EventType = "tool_end"

	// Typed result events let the UI render each capability's payload as it
	// lands: t1 prediction, t2 importance, t3 knowledge.
	EventPredictResult    EventType = "t1_result"
	EventImportanceResult EventType = "t2_result"
	EventKnowledgeResult  EventType = "t3_result"

	EventAIResponse EventType = "ai_response"
	EventDone       EventType = "done"
	EventError      EventType = "error"
)

// Event is one progress step of a streaming run.
type Event struct {
	Type    EventType      `json:"type"`
	Message string         `json:"message,omitempty"`
	Tool    string         `json:"tool,omitempty"`
	Input   map[string]any `json:"input,omitempty"`
	Result  map[string]any `json:"result,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Elapsed float64        `json:"elapsed"`
}

// resultEventType maps a tool to its typed result event.
func resultEventType(name tools.Name) EventType {
	switch name {
	case tools.PredictQuality:
		return EventPredictResult
	case tools.AnalyzeImportance:
		return EventImportanceResult
	default:
		return EventKnowledgeResult
	}
}

// roundElapsed renders elapsed seconds with two decimals, matching the
// wire format clients parse.
func roundElapsed(seconds float64) float64 {
	return math.Round(seconds*100) / 100
}
