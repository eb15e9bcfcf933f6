// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

// Package tools implements the capability invokers the agent loop dispatches
// to: quality prediction, feature-importance analysis, and knowledge search.
//
// Invokers never return Go errors. Transport failures, timeouts, and malformed
// backend envelopes become error-shaped results ({"error": "..."}) that flow
// back into the planner's context like any other tool output, so the
// conversation can recover or explain the failure.
package tools

import (
	"context"
	"fmt"
)

// Name is the closed set of capabilities exposed to the planner.
type Name int

const (
	PredictQuality Name = iota
	AnalyzeImportance
	SearchKnowledge
)

// String returns the wire name the planner uses to request the tool.
func (n Name) String() string {
	switch n {
	case PredictQuality:
		return "predict_quality"
	case AnalyzeImportance:
		return "analyze_feature_importance"
	case SearchKnowledge:
		return "search_knowledge_base"
	default:
		return fmt.Sprintf("unknown(%d)", int(n))
	}
}

// ParseName maps a planner-supplied tool name to its Name.
func ParseName(s string) (Name, bool) {
	switch s {
	case "predict_quality":
		return PredictQuality, true
	case "analyze_feature_importance":
		return AnalyzeImportance, true
	case "search_knowledge_base":
		return SearchKnowledge, true
	default:
		return 0, false
	}
}

// Invoker executes one capability. Implementations normalize every failure
// into an error-shaped result instead of returning a Go error.
type Invoker interface {
	Invoke(ctx context.Context, input map[string]any) map[string]any
}

// Registry maps tool names to invokers.
type Registry struct {
	invokers map[Name]Invoker
}

// NewRegistry builds a registry over the given invokers.
func NewRegistry(predict, analyze, search Invoker) *Registry {
	return &Registry{invokers: map[Name]Invoker{
		PredictQuality:    predict,
		AnalyzeImportance: analyze,
		SearchKnowledge:   search,
	}}
}

// Execute dispatches a planner tool request. The request-level feature map is
// substituted when the planner omits features from its tool input. Unknown
// tool names produce an error-shaped result.
func (r *Registry) Execute(ctx context.Context, wireName string, input map[string]any, features map[string]float64) map[string]any {
	name, ok := ParseName(wireName)
	if !ok {
		return map[string]any{"error": fmt.Sprintf("unknown tool: %s", wireName)}
	}

	merged := make(map[string]any, len(input)+1)
	for k, v := range input {
		merged[k] = v
	}
	if name == PredictQuality || name == AnalyzeImportance {
		if _, ok := merged["features"]; !ok && len(features) > 0 {
			merged["features"] = featuresToAny(features)
		}
	}

	return r.invokers[name].Invoke(ctx, merged)
}

func featuresToAny(features map[string]float64) map[string]any {
	out := make(map[string]any, len(features))
	for k, v := range features {
		out[k] = v
	}
	return out
}
