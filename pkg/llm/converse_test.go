// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConverseClientRoundTrip(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/model/test-model/converse" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization header = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := map[string]any{
			"output": map[string]any{
				"message": map[string]any{
					"role":    "assistant",
					"content": []map[string]any{{"text": "불량 확률은 낮습니다."}},
				},
			},
			"stopReason": "end_turn",
			"usage":      map[string]any{"inputTokens": 42, "outputTokens": 7, "totalTokens": 49},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewConverseClient(srv.URL, "test-model", "secret", 0)
	resp, err := client.Converse(context.Background(), ConverseRequest{
		System:   "system prompt",
		Messages: []Message{TextMessage(RoleUser, "질문")},
		Tools: []ToolSpec{{
			Name:        "predict_quality",
			Description: "desc",
			InputSchema: map[string]any{"type": "object"},
		}},
	})
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}

	if resp.StopReason != StopEndTurn {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
	if got := resp.Message.FirstText(); got != "불량 확률은 낮습니다." {
		t.Errorf("answer = %q", got)
	}
	if resp.Usage.TotalTokens != 49 {
		t.Errorf("usage = %+v", resp.Usage)
	}

	// The tool catalog must travel as toolConfig.tools[].toolSpec.
	toolConfig, ok := captured["toolConfig"].(map[string]any)
	if !ok {
		t.Fatalf("toolConfig missing in request: %v", captured)
	}
	tools := toolConfig["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("tools = %v", tools)
	}
	spec := tools[0].(map[string]any)["toolSpec"].(map[string]any)
	if spec["name"] != "predict_quality" {
		t.Errorf("tool name = %v", spec["name"])
	}
}

func TestConverseClientNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewConverseClient(srv.URL, "m", "", 0)
	if _, err := client.Converse(context.Background(), ConverseRequest{}); err == nil {
		t.Fatal("expected an error for non-2xx status")
	}
}

func TestToolUseDecoding(t *testing.T) {
	raw := `{
		"role": "assistant",
		"content": [
			{"toolUse": {"toolUseId": "tu-1", "name": "predict_quality", "input": {"features": {"temp": 700}}}}
		]
	}`
	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	uses := msg.ToolUses()
	if len(uses) != 1 {
		t.Fatalf("tool uses = %d", len(uses))
	}
	if uses[0].Name != "predict_quality" || uses[0].ID != "tu-1" {
		t.Errorf("unexpected tool use: %+v", uses[0])
	}
}

func TestScriptedProviderSequence(t *testing.T) {
	provider := NewScriptedProvider(
		ToolUseTurn(ToolUse{ID: "tu-1", Name: "predict_quality", Input: map[string]any{}}),
		EndTurn("done"),
	)

	first, err := provider.Converse(context.Background(), ConverseRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if first.StopReason != StopToolUse {
		t.Errorf("first stop reason = %q", first.StopReason)
	}

	second, err := provider.Converse(context.Background(), ConverseRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if second.StopReason != StopEndTurn || second.Message.FirstText() != "done" {
		t.Errorf("second response = %+v", second)
	}

	if provider.CallCount != 2 {
		t.Errorf("call count = %d", provider.CallCount)
	}
	if _, err := provider.Converse(context.Background(), ConverseRequest{}); err == nil {
		t.Error("expected error when script is exhausted")
	}
}
