// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/castwise/foundry/pkg/audit"
	"github.com/castwise/foundry/pkg/core"
	ferrors "github.com/castwise/foundry/pkg/errors"
	"github.com/castwise/foundry/pkg/llm"
	"github.com/castwise/foundry/pkg/memory"
	"github.com/castwise/foundry/pkg/telemetry"
	"github.com/castwise/foundry/pkg/tools"
)

// Run executes one blocking agent run and returns the final answer together
// with the full tool-results log.
func (a *Agent) Run(ctx context.Context, req Request) (*Result, error) {
	return a.run(ctx, req, func(Event) {})
}

// RunStream executes one run and emits progress events on the returned
// channel, which is closed when the run finishes. Any terminal failure
// surfaces as a single error event. If ctx is cancelled (client disconnect),
// event production stops silently.
func (a *Agent) RunStream(ctx context.Context, req Request) <-chan Event {
	events := make(chan Event, 16)
	go func() {
		defer close(events)
		start := time.Now()
		emit := func(ev Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}
		if _, err := a.run(ctx, req, emit); err != nil {
			emit(Event{
				Type:    EventError,
				Message: err.Error(),
				Elapsed: roundElapsed(time.Since(start).Seconds()),
			})
		}
	}()
	return events
}

// run drives the planner/tool loop shared by both forms. Both recover panics
// and planner failures into an error return; the streaming wrapper turns that
// into a terminal error event.
func (a *Agent) run(ctx context.Context, req Request, emit func(Event)) (result *Result, err error) {
	start := time.Now()
	elapsed := func() float64 { return roundElapsed(time.Since(start).Seconds()) }

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = ferrors.New(ferrors.CodeInternal, fmt.Sprintf("agent run panicked: %v", r), nil)
		}
		if err != nil {
			a.metrics.RecordError(ctx, string(ferrors.AsFoundryError(err).Code))
		}
	}()

	if req.Question == "" {
		return nil, ferrors.New(ferrors.CodeInvalidInput, "question is required", nil)
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = core.DefaultSessionID
	}
	ctx = core.WithSessionID(ctx, sessionID)
	ctx, runID := core.EnsureRunID(ctx)

	ctx, span := a.tracer.Start(ctx, "agent.run",
		trace.WithAttributes(telemetry.RunAttributes(runID, sessionID, 0, a.maxRounds)...))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	a.metrics.RecordRun(ctx)
	a.logger.InfoContext(ctx, "agent run started", "question_len", len(req.Question), "features", len(req.Features))

	emit(Event{Type: EventStatus, Message: "AI 에이전트 시작", Elapsed: elapsed()})
	emit(Event{Type: EventThinking, Message: "사용자 질문을 분석하고 있습니다...", Elapsed: elapsed()})

	history, herr := a.memory.Recent(ctx, sessionID, a.maxHistory)
	if herr != nil {
		return nil, ferrors.New(ferrors.CodeMemoryError, "load session history", herr)
	}
	span.SetAttributes(attribute.Int(telemetry.AttrSessionMsgCount, len(history)))

	messages := make([]llm.Message, 0, len(history)+1)
	for _, msg := range history {
		messages = append(messages, llm.TextMessage(llm.Role(msg.Role), msg.Content))
	}
	messages = append(messages, llm.TextMessage(llm.RoleUser, apiTurn(req)))

	var toolLog []ToolCall

	// finish emits the terminal events and persists only the concise
	// question/answer pair, never the tool-laden transcript.
	finish := func(answer string) (*Result, error) {
		emit(Event{Type: EventAIResponse, Data: map[string]any{"answer": answer}, Elapsed: elapsed()})
		emit(Event{Type: EventDone, Elapsed: elapsed()})
		if perr := a.persist(ctx, sessionID, req.Question, answer); perr != nil {
			a.logger.WarnContext(ctx, "persist conversation", "error", perr)
		}
		a.logger.InfoContext(ctx, "agent run finished", "tool_calls", len(toolLog), "elapsed", elapsed())
		return &Result{Answer: answer, ToolResults: toolLog}, nil
	}

	for round := 0; round < a.maxRounds; round++ {
		a.metrics.RecordRound(ctx)
		if round == 0 {
			emit(Event{Type: EventStatus, Message: fmt.Sprintf("도구 선택 중... (반복 %d)", round+1), Elapsed: elapsed()})
		} else {
			emit(Event{Type: EventStatus, Message: "분석 결과를 통합하여 최종 답변 생성 중...", Elapsed: elapsed()})
		}

		plannerStart := time.Now()
		plannerCtx, plannerSpan := a.tracer.Start(ctx, "agent.planner",
			trace.WithAttributes(attribute.Int(telemetry.AttrRunRound, round+1)))
		resp, cerr := a.provider.Converse(plannerCtx, llm.ConverseRequest{
			System:   SystemPrompt,
			Messages: messages,
			Tools:    a.catalog,
		})
		plannerDurationMs := time.Since(plannerStart).Seconds() * 1000
		if cerr != nil {
			plannerSpan.RecordError(cerr)
			plannerSpan.SetStatus(codes.Error, cerr.Error())
			plannerSpan.End()
			return nil, ferrors.New(ferrors.CodePlannerError, "planner call failed", cerr).
				WithContext("round", round+1)
		}
		plannerSpan.SetAttributes(telemetry.PlannerAttributes(
			string(resp.StopReason), len(resp.Message.ToolUses()), plannerDurationMs)...)
		plannerSpan.End()
		a.logger.DebugContext(ctx, "planner round complete",
			"round", round+1,
			"stop_reason", string(resp.StopReason),
			"duration_ms", time.Since(plannerStart).Milliseconds())

		messages = append(messages, resp.Message)

		if resp.StopReason == llm.StopEndTurn {
			return finish(resp.Message.FirstText())
		}
		if resp.StopReason != llm.StopToolUse {
			return nil, ferrors.New(ferrors.CodePlannerError,
				fmt.Sprintf("unexpected stop reason %q", resp.StopReason), nil)
		}

		var resultBlocks []llm.ContentBlock
		for _, use := range resp.Message.ToolUses() {
			emit(Event{Type: EventToolStart, Tool: use.Name, Input: use.Input, Elapsed: elapsed()})

			toolStart := time.Now()
			toolCtx, toolSpan := a.tracer.Start(ctx, "agent.tool")
			toolResult := a.registry.Execute(toolCtx, use.Name, use.Input, req.Features)
			_, failed := toolResult["error"]
			toolSpan.SetAttributes(telemetry.ToolCallAttributes(
				use.Name, use.ID, time.Since(toolStart).Seconds()*1000, !failed)...)
			if failed {
				toolSpan.SetStatus(codes.Error, "tool returned error")
			}
			toolSpan.End()
			a.metrics.RecordTool(ctx, use.Name, !failed)
			a.recordAudit(ctx, runID, sessionID, use, toolResult, toolStart)

			emit(Event{Type: EventToolEnd, Tool: use.Name, Result: toolResult, Elapsed: elapsed()})
			name, known := tools.ParseName(use.Name)
			if known {
				emit(Event{Type: resultEventType(name), Data: toolResult, Elapsed: elapsed()})
			}
			toolLog = append(toolLog, ToolCall{Tool: use.Name, Input: use.Input, Result: toolResult})

			// Knowledge answers are already synthesized by the retrieval
			// backend; resubmitting them to the planner wastes a round and
			// risks fabricated follow-up tool calls.
			if known && name == tools.SearchKnowledge {
				if answer, ok := toolResult["answer"].(string); ok && answer != "" {
					return finish(answer)
				}
			}

			resultBlocks = append(resultBlocks, llm.ContentBlock{ToolResult: &llm.ToolResult{
				ID:      use.ID,
				Content: Summarize(use.Name, toolResult),
			}})
		}

		if len(resultBlocks) > 0 {
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: resultBlocks})
			emit(Event{Type: EventStatus, Message: "도구 결과를 분석하고 있습니다...", Elapsed: elapsed()})
		}
	}

	a.logger.WarnContext(ctx, "round budget exhausted", "max_rounds", a.maxRounds)
	return finish(FallbackAnswer)
}

// apiTurn builds the verbose planner-facing user turn carrying the question
// plus the serialized process parameters.
func apiTurn(req Request) string {
	features, err := json.MarshalIndent(req.Features, "", "  ")
	if err != nil {
		features = []byte("{}")
	}
	return fmt.Sprintf("사용자 질문: %s\n\n현재 공정 파라미터:\n%s\n\n위 질문에 답변하기 위해 필요한 도구를 호출하세요.",
		req.Question, features)
}

func (a *Agent) persist(ctx context.Context, sessionID, question, answer string) error {
	now := time.Now().UTC()
	msgs := []memory.Message{
		{ID: uuid.NewString(), SessionID: sessionID, Role: string(llm.RoleUser), Content: question, CreatedAt: now},
		{ID: uuid.NewString(), SessionID: sessionID, Role: string(llm.RoleAssistant), Content: answer, CreatedAt: now},
	}
	if err := a.memory.Append(ctx, sessionID, msgs...); err != nil {
		return err
	}
	return a.memory.Trim(ctx, sessionID, a.maxHistory*2)
}

func (a *Agent) recordAudit(ctx context.Context, runID, sessionID string, use llm.ToolUse, result map[string]any, startedAt time.Time) {
	status := "ok"
	if _, failed := result["error"]; failed {
		status = "error"
	}
	event := audit.Event{
		RunID:      runID,
		SessionID:  sessionID,
		Tool:       use.Name,
		Input:      use.Input,
		Result:     result,
		Status:     status,
		StartedAt:  startedAt.UTC(),
		FinishedAt: time.Now().UTC(),
	}
	if aerr := a.audit.Record(ctx, event); aerr != nil {
		a.logger.WarnContext(ctx, "record audit event", "tool", use.Name, "error", aerr)
	}
}
