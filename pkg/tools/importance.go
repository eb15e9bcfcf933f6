// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"math/rand"
	"sort"
	"time"
)

// DefaultTopN is the number of ranked importance pairs requested by default.
const DefaultTopN = 10

// AnalyzeInvoker calls the feature-importance backend. It expects the latent
// vector produced by a prior predict_quality call; an absent or empty vector
// is forwarded as-is and treated by the backend as a degraded (global
// importance) request, not an error.
type AnalyzeInvoker struct {
	client *backendClient
	mock   bool
}

// NewAnalyzeInvoker creates the analyze_feature_importance invoker.
func NewAnalyzeInvoker(url string, signer *Signer, timeout time.Duration, mock bool) *AnalyzeInvoker {
	return &AnalyzeInvoker{
		client: newBackendClient(url, signer, timeout),
		mock:   mock,
	}
}

// Invoke implements Invoker.
func (a *AnalyzeInvoker) Invoke(ctx context.Context, input map[string]any) map[string]any {
	features, _ := input["features"].(map[string]any)
	latent, _ := input["latent_features"].([]any)

	topN := DefaultTopN
	if v, ok := asFloat(input["top_n"]); ok && v > 0 {
		topN = int(v)
	}

	var result map[string]any
	if a.mock {
		result = a.mockResult(features)
	} else {
		var err error
		result, err = a.client.post(ctx, map[string]any{
			"features":        features,
			"latent_features": latent,
			"top_n":           topN,
		})
		if err != nil {
			return map[string]any{"error": err.Error()}
		}
	}

	annotateImportance(result)
	return result
}

// annotateImportance adds a percentage rendering of each ranked pair.
func annotateImportance(result map[string]any) {
	top, ok := result["top_features"].([]any)
	if !ok {
		return
	}
	percents := make([]any, 0, len(top))
	for _, entry := range top {
		pair, ok := entry.([]any)
		if !ok || len(pair) != 2 {
			continue
		}
		percents = append(percents, []any{pair[0], formatPercent(pair[1], 2)})
	}
	result["top_features_percent"] = percents
}

func (a *AnalyzeInvoker) mockResult(features map[string]any) map[string]any {
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)

	rng := rand.New(rand.NewSource(int64(hashInput(features))))
	rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	if len(names) > DefaultTopN {
		names = names[:DefaultTopN]
	}
	top := make([]any, 0, len(names))
	for i, name := range names {
		top = append(top, []any{name, 0.15 - float64(i)*0.012})
	}
	return map[string]any{"top_features": top}
}

// Ensure AnalyzeInvoker implements Invoker.
var _ Invoker = (*AnalyzeInvoker)(nil)
