// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"errors"
	"sync"
)

// ScriptedProvider is a mock provider that returns a pre-defined sequence of
// responses. Useful for testing multi-round agent loops; CallCount lets tests
// assert exactly how many planner rounds were issued.
type ScriptedProvider struct {
	mu        sync.Mutex
	Responses []*ConverseResponse
	Err       error

	// CallCount tracks how many times Converse has been called.
	CallCount int

	// LastRequest holds the most recent request for assertions.
	LastRequest ConverseRequest
}

// NewScriptedProvider creates a ScriptedProvider from a response sequence.
func NewScriptedProvider(responses ...*ConverseResponse) *ScriptedProvider {
	return &ScriptedProvider{Responses: responses}
}

// Converse pops the next scripted response or returns the configured error.
func (s *ScriptedProvider) Converse(_ context.Context, req ConverseRequest) (*ConverseResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CallCount++
	s.LastRequest = req

	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Responses) == 0 {
		return nil, errors.New("scripted provider: no more responses available")
	}

	resp := s.Responses[0]
	s.Responses = s.Responses[1:]
	return resp, nil
}

// EndTurn builds a terminal text response.
func EndTurn(text string) *ConverseResponse {
	return &ConverseResponse{
		Message:    TextMessage(RoleAssistant, text),
		StopReason: StopEndTurn,
	}
}

// ToolUseTurn builds a response requesting the given tool invocations.
func ToolUseTurn(uses ...ToolUse) *ConverseResponse {
	msg := Message{Role: RoleAssistant}
	for i := range uses {
		use := uses[i]
		msg.Content = append(msg.Content, ContentBlock{ToolUse: &use})
	}
	return &ConverseResponse{Message: msg, StopReason: StopToolUse}
}

// Ensure ScriptedProvider implements Provider.
var _ Provider = (*ScriptedProvider)(nil)
