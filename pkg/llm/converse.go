// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/castwise/foundry/pkg/telemetry"
)

// ConverseClient implements Provider against a hosted converse-style model
// gateway. This is the single point of translation between the gateway's wire
// shape and the internal planner schema.
type ConverseClient struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
	tracer  trace.Tracer
}

// NewConverseClient creates a ConverseClient. A zero timeout defaults to 120s.
func NewConverseClient(baseURL, model, apiKey string, timeout time.Duration) *ConverseClient {
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &ConverseClient{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		tracer:  otel.Tracer("foundry/llm"),
	}
}

type wireConverseRequest struct {
	System     []wireText      `json:"system"`
	Messages   []Message       `json:"messages"`
	ToolConfig *wireToolConfig `json:"toolConfig,omitempty"`
}

type wireText struct {
	Text string `json:"text"`
}

type wireToolConfig struct {
	Tools []wireTool `json:"tools"`
}

type wireTool struct {
	ToolSpec wireToolSpec `json:"toolSpec"`
}

type wireToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema wireToolSchema `json:"inputSchema"`
}

type wireToolSchema struct {
	JSON map[string]any `json:"json"`
}

type wireConverseResponse struct {
	Output struct {
		Message Message `json:"message"`
	} `json:"output"`
	StopReason string `json:"stopReason"`
	Usage      struct {
		InputTokens  int `json:"inputTokens"`
		OutputTokens int `json:"outputTokens"`
		TotalTokens  int `json:"totalTokens"`
	} `json:"usage"`
}

// Converse sends one planner call to the gateway.
func (c *ConverseClient) Converse(ctx context.Context, req ConverseRequest) (_ *ConverseResponse, err error) {
	ctx, span := c.tracer.Start(ctx, "llm.converse",
		trace.WithAttributes(attribute.String(telemetry.AttrPlannerModel, c.model)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	wireReq := wireConverseRequest{
		System:   []wireText{{Text: req.System}},
		Messages: req.Messages,
	}
	if len(req.Tools) > 0 {
		cfg := &wireToolConfig{}
		for _, tool := range req.Tools {
			cfg.Tools = append(cfg.Tools, wireTool{ToolSpec: wireToolSpec{
				Name:        tool.Name,
				Description: tool.Description,
				InputSchema: wireToolSchema{JSON: tool.InputSchema},
			}})
		}
		wireReq.ToolConfig = cfg
	}

	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal converse request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/model/%s/converse", c.baseURL, url.PathEscape(c.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("planner api call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("planner api returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var wireResp wireConverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&wireResp); err != nil {
		return nil, fmt.Errorf("failed to decode planner response: %w", err)
	}

	return &ConverseResponse{
		Message:    wireResp.Output.Message,
		StopReason: StopReason(wireResp.StopReason),
		Usage: Usage{
			InputTokens:  wireResp.Usage.InputTokens,
			OutputTokens: wireResp.Usage.OutputTokens,
			TotalTokens:  wireResp.Usage.TotalTokens,
		},
	}, nil
}

// Ensure ConverseClient implements Provider.
var _ Provider = (*ConverseClient)(nil)
