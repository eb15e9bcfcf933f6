// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"math/rand"
	"time"
)

// PredictInvoker calls the quality-prediction backend. The result carries a
// prediction verdict with class probabilities and the compressed-feature
// (latent) vector consumed by the importance analyzer.
type PredictInvoker struct {
	client *backendClient
	mock   bool
}

// NewPredictInvoker creates the predict_quality invoker.
func NewPredictInvoker(url string, signer *Signer, timeout time.Duration, mock bool) *PredictInvoker {
	return &PredictInvoker{
		client: newBackendClient(url, signer, timeout),
		mock:   mock,
	}
}

// Invoke implements Invoker.
func (p *PredictInvoker) Invoke(ctx context.Context, input map[string]any) map[string]any {
	features, _ := input["features"].(map[string]any)

	var result map[string]any
	if p.mock {
		result = p.mockResult(features)
	} else {
		var err error
		result, err = p.client.post(ctx, map[string]any{"features": features})
		if err != nil {
			return map[string]any{"error": err.Error()}
		}
	}

	annotatePrediction(result)
	return result
}

// annotatePrediction adds percentage renderings next to the raw probabilities.
func annotatePrediction(result map[string]any) {
	pred, ok := result["prediction"].(map[string]any)
	if !ok {
		return
	}
	pred["probability_percent"] = formatPercent(pred["probability"], 1)

	if probs, ok := pred["class_probabilities"].(map[string]any); ok {
		percents := make(map[string]any, len(probs))
		for class, p := range probs {
			percents[class] = formatPercent(p, 1)
		}
		pred["class_probabilities_percent"] = percents
	}
}

func (p *PredictInvoker) mockResult(features map[string]any) map[string]any {
	rng := rand.New(rand.NewSource(int64(hashInput(features))))

	defectProb := 0.25
	if rng.Intn(2) == 1 {
		defectProb = 0.75
	}
	class := "normal"
	if defectProb > 0.5 {
		class = "defect"
	}

	latent := make([]any, 12)
	for i := range latent {
		latent[i] = rng.Float64()*2 - 1
	}

	return map[string]any{
		"prediction": map[string]any{
			"class":       class,
			"probability": defectProb,
			"class_probabilities": map[string]any{
				"normal": 1 - defectProb,
				"defect": defectProb,
			},
		},
		"latent_features": latent,
	}
}

// Ensure PredictInvoker implements Invoker.
var _ Invoker = (*PredictInvoker)(nil)
