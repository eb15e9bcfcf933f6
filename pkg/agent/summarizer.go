// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import "github.com/castwise/foundry/pkg/tools"

const (
	maxLatentElements   = 24
	maxImportancePairs  = 10
	maxKnowledgeSources = 3
)

// Summarize reduces a full capability result to the projection handed back to
// the planner. Full results stay on the event stream for the UI; the planner
// pays per token and only needs the load-bearing fields. Pure and idempotent:
// re-summarizing an already-reduced result is a no-op truncation. Unknown
// names pass through untouched.
func Summarize(wireName string, result map[string]any) map[string]any {
	name, ok := tools.ParseName(wireName)
	if !ok {
		return result
	}
	switch name {
	case tools.PredictQuality:
		return map[string]any{
			"prediction":      result["prediction"],
			"latent_features": truncateList(result["latent_features"], maxLatentElements),
		}
	case tools.AnalyzeImportance:
		return map[string]any{
			"top_features":         truncateList(result["top_features"], maxImportancePairs),
			"top_features_percent": truncateList(result["top_features_percent"], maxImportancePairs),
		}
	case tools.SearchKnowledge:
		return map[string]any{
			"answer":  result["answer"],
			"sources": truncateList(result["sources"], maxKnowledgeSources),
		}
	}
	return result
}

func truncateList(value any, max int) []any {
	list, ok := value.([]any)
	if !ok {
		return []any{}
	}
	if len(list) > max {
		return list[:max]
	}
	return list
}
