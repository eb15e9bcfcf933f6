// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AgentMetrics tracks run, round, and tool counters for production monitoring.
type AgentMetrics struct {
	runCounter   metric.Int64Counter
	roundCounter metric.Int64Counter
	toolCounter  metric.Int64Counter
	errorCounter metric.Int64Counter
}

var (
	agentMetrics     *AgentMetrics
	agentMetricsOnce sync.Once
)

// Metrics returns the process-wide agent metrics, initializing them on first use.
func Metrics() *AgentMetrics {
	agentMetricsOnce.Do(func() {
		m, err := newAgentMetrics()
		if err != nil {
			// Metrics are best effort; a nil receiver no-ops every Record call.
			return
		}
		agentMetrics = m
	})
	return agentMetrics
}

func newAgentMetrics() (*AgentMetrics, error) {
	meter := otel.Meter("foundry/agent")

	runCounter, err := meter.Int64Counter(
		"foundry.agent.runs",
		metric.WithDescription("Agent runs started"),
	)
	if err != nil {
		return nil, err
	}
	roundCounter, err := meter.Int64Counter(
		"foundry.agent.rounds",
		metric.WithDescription("Planner rounds executed"),
	)
	if err != nil {
		return nil, err
	}
	toolCounter, err := meter.Int64Counter(
		"foundry.agent.tool_invocations",
		metric.WithDescription("Capability invocations by tool name"),
	)
	if err != nil {
		return nil, err
	}
	errorCounter, err := meter.Int64Counter(
		"foundry.agent.errors",
		metric.WithDescription("Terminal run errors"),
	)
	if err != nil {
		return nil, err
	}

	return &AgentMetrics{
		runCounter:   runCounter,
		roundCounter: roundCounter,
		toolCounter:  toolCounter,
		errorCounter: errorCounter,
	}, nil
}

// RecordRun counts one agent run.
func (m *AgentMetrics) RecordRun(ctx context.Context) {
	if m == nil {
		return
	}
	m.runCounter.Add(ctx, 1)
}

// RecordRound counts one planner round.
func (m *AgentMetrics) RecordRound(ctx context.Context) {
	if m == nil {
		return
	}
	m.roundCounter.Add(ctx, 1)
}

// RecordTool counts one capability invocation.
func (m *AgentMetrics) RecordTool(ctx context.Context, tool string, success bool) {
	if m == nil {
		return
	}
	m.toolCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrToolName, tool),
			attribute.Bool(AttrToolSuccess, success),
		))
}

// RecordError counts one terminal run error.
func (m *AgentMetrics) RecordError(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.errorCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("foundry.error.code", code)))
}
