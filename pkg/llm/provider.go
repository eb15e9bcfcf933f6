// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package llm defines the planner protocol and its provider implementations.
//
// The rest of the system speaks only the types in this file; translation to
// the hosted model's wire format happens inside each Provider implementation.
package llm

import "context"

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// StopReason signals how the planner finished a round.
type StopReason string

const (
	// StopEndTurn means the planner produced a terminal text answer.
	StopEndTurn StopReason = "end_turn"

	// StopToolUse means the planner requested one or more tool invocations.
	StopToolUse StopReason = "tool_use"
)

// ToolUse is a planner request to invoke a declared tool.
type ToolUse struct {
	ID    string         `json:"toolUseId"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// ToolResult carries a tool's output back to the planner.
type ToolResult struct {
	ID      string         `json:"toolUseId"`
	Content map[string]any `json:"content"`
}

// ContentBlock is a tagged variant: exactly one of the fields is set.
type ContentBlock struct {
	Text       string      `json:"text,omitempty"`
	ToolUse    *ToolUse    `json:"toolUse,omitempty"`
	ToolResult *ToolResult `json:"toolResult,omitempty"`
}

// Message is a single conversation turn.
type Message struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
}

// TextMessage builds a message holding a single text block.
func TextMessage(role Role, text string) Message {
	return Message{Role: role, Content: []ContentBlock{{Text: text}}}
}

// FirstText returns the first text block of a message, or "".
func (m Message) FirstText() string {
	for _, block := range m.Content {
		if block.Text != "" {
			return block.Text
		}
	}
	return ""
}

// ToolUses returns the tool-invocation requests of a message in order.
func (m Message) ToolUses() []ToolUse {
	var uses []ToolUse
	for _, block := range m.Content {
		if block.ToolUse != nil {
			uses = append(uses, *block.ToolUse)
		}
	}
	return uses
}

// ToolSpec declares a tool to the planner.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"` // JSON Schema
}

// ConverseRequest encapsulates one planner call.
type ConverseRequest struct {
	System   string     `json:"system"`
	Messages []Message  `json:"messages"`
	Tools    []ToolSpec `json:"tools,omitempty"`
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// ConverseResponse encapsulates one planner answer.
type ConverseResponse struct {
	Message    Message    `json:"message"`
	StopReason StopReason `json:"stop_reason"`
	Usage      Usage      `json:"usage"`
}

// Provider defines the interface for interacting with the hosted planner.
type Provider interface {
	// Converse sends the system prompt, transcript, and tool catalog to the
	// planner and returns its next message.
	Converse(ctx context.Context, req ConverseRequest) (*ConverseResponse, error)
}
