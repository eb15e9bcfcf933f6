// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		decimals int
		want     string
	}{
		{"one decimal", 0.753, 1, "75.3%"},
		{"two decimals", 0.0312, 2, "3.12%"},
		{"integer value", 1, 1, "100.0%"},
		{"missing value", nil, 1, "0.0%"},
		{"non-numeric", "high", 2, "0.00%"},
		{"nan", math.NaN(), 1, "0.0%"},
		{"infinity", math.Inf(1), 2, "0.00%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPercent(tt.value, tt.decimals); got != tt.want {
				t.Errorf("formatPercent(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestAnnotatePredictionParsesBack(t *testing.T) {
	result := map[string]any{
		"prediction": map[string]any{
			"class":       "defect",
			"probability": 0.6789,
			"class_probabilities": map[string]any{
				"normal": 0.3211,
				"defect": 0.6789,
			},
		},
	}
	annotatePrediction(result)

	pred := result["prediction"].(map[string]any)
	pct, ok := pred["probability_percent"].(string)
	if !ok {
		t.Fatal("probability_percent missing")
	}
	parsed, err := strconv.ParseFloat(strings.TrimSuffix(pct, "%"), 64)
	if err != nil {
		t.Fatalf("parse %q: %v", pct, err)
	}
	if math.Abs(parsed-67.89) > 0.05 {
		t.Errorf("probability_percent %q drifted from raw 0.6789", pct)
	}

	percents := pred["class_probabilities_percent"].(map[string]any)
	if percents["normal"] != "32.1%" || percents["defect"] != "67.9%" {
		t.Errorf("class percents = %v", percents)
	}
}

func TestMockPredictionDeterministic(t *testing.T) {
	invoker := NewPredictInvoker("", nil, 0, true)
	input := map[string]any{"features": map[string]any{"molten_temp": 650.0, "cast_pressure": 120.0}}

	first := invoker.Invoke(context.Background(), input)
	second := invoker.Invoke(context.Background(), input)
	if !reflect.DeepEqual(first, second) {
		t.Error("mock prediction not deterministic for identical input")
	}

	pred := first["prediction"].(map[string]any)
	class := pred["class"].(string)
	p := pred["probability"].(float64)
	if (class == "defect") != (p > 0.5) {
		t.Errorf("class %q inconsistent with probability %v", class, p)
	}

	latent := first["latent_features"].([]any)
	if len(latent) != 12 {
		t.Errorf("latent length = %d, want 12", len(latent))
	}
	for i, v := range latent {
		f := v.(float64)
		if f < -1 || f >= 1 {
			t.Errorf("latent[%d] = %v out of [-1, 1)", i, f)
		}
	}
}

func TestMockImportanceRankedPairs(t *testing.T) {
	invoker := NewAnalyzeInvoker("", nil, 0, true)
	input := map[string]any{"features": map[string]any{
		"molten_temp":   650.0,
		"cast_pressure": 120.0,
		"cycle_time":    45.0,
	}}

	result := invoker.Invoke(context.Background(), input)
	top := result["top_features"].([]any)
	if len(top) != 3 {
		t.Fatalf("top_features length = %d", len(top))
	}
	for i, entry := range top {
		pair := entry.([]any)
		if len(pair) != 2 {
			t.Fatalf("pair %d has %d elements", i, len(pair))
		}
		if _, ok := pair[0].(string); !ok {
			t.Errorf("pair %d name is %T", i, pair[0])
		}
	}

	percents := result["top_features_percent"].([]any)
	if len(percents) != len(top) {
		t.Fatalf("percent list length mismatch: %d vs %d", len(percents), len(top))
	}
	first := percents[0].([]any)
	if s := first[1].(string); !strings.HasSuffix(s, "%") || strings.Count(s, ".") != 1 {
		t.Errorf("percent rendering = %q", s)
	}
}

func TestMockSearchEchoesQuery(t *testing.T) {
	invoker := NewSearchInvoker("", nil, 0, true)
	result := invoker.Invoke(context.Background(), map[string]any{"query": "금형 온도 권장 범위"})

	answer := result["answer"].(string)
	if !strings.Contains(answer, "금형 온도 권장 범위") {
		t.Errorf("answer does not echo query: %q", answer)
	}
	sources := result["sources"].([]any)
	if len(sources) == 0 {
		t.Fatal("sources missing")
	}
}

func TestSearchMissingQuery(t *testing.T) {
	invoker := NewSearchInvoker("", nil, 0, true)
	result := invoker.Invoke(context.Background(), map[string]any{})
	if _, ok := result["error"]; !ok {
		t.Error("expected error-shaped result for missing query")
	}
}

func TestRegistryFeatureFallback(t *testing.T) {
	registry := NewRegistry(
		NewPredictInvoker("", nil, 0, true),
		NewAnalyzeInvoker("", nil, 0, true),
		NewSearchInvoker("", nil, 0, true),
	)
	features := map[string]float64{"molten_temp": 650, "cast_pressure": 120}

	// Planner omitted features from its tool input; the request-level map fills in.
	result := registry.Execute(context.Background(), "predict_quality", map[string]any{}, features)
	if _, ok := result["error"]; ok {
		t.Fatalf("unexpected error: %v", result["error"])
	}
	if _, ok := result["prediction"]; !ok {
		t.Error("prediction missing when features fell back to request level")
	}

	// Explicit planner features win over the request-level map.
	explicit := map[string]any{"features": map[string]any{"molten_temp": 700.0}}
	withExplicit := registry.Execute(context.Background(), "predict_quality", explicit, features)
	withoutRequest := registry.Execute(context.Background(), "predict_quality", explicit, nil)
	if !reflect.DeepEqual(withExplicit, withoutRequest) {
		t.Error("request-level features overrode explicit planner input")
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	registry := NewRegistry(
		NewPredictInvoker("", nil, 0, true),
		NewAnalyzeInvoker("", nil, 0, true),
		NewSearchInvoker("", nil, 0, true),
	)
	result := registry.Execute(context.Background(), "drop_tables", nil, nil)
	errMsg, ok := result["error"].(string)
	if !ok || !strings.Contains(errMsg, "drop_tables") {
		t.Errorf("unknown tool result = %v", result)
	}
}

func TestParseNameRoundTrip(t *testing.T) {
	for _, name := range []Name{PredictQuality, AnalyzeImportance, SearchKnowledge} {
		parsed, ok := ParseName(name.String())
		if !ok || parsed != name {
			t.Errorf("ParseName(%q) = %v, %v", name.String(), parsed, ok)
		}
	}
	if _, ok := ParseName("nonexistent"); ok {
		t.Error("ParseName accepted an unknown name")
	}
}

func TestLoadCatalog(t *testing.T) {
	specs, err := LoadCatalog("")
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 3 {
		t.Fatalf("catalog has %d specs", len(specs))
	}
	if specs[0].Name != "predict_quality" {
		t.Errorf("first spec = %q", specs[0].Name)
	}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	override := `tools:
  - name: search_knowledge_base
    description: "사내 Knowledge Base 전용 검색"
`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}
	specs, err = LoadCatalog(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, spec := range specs {
		if spec.Name == "search_knowledge_base" && spec.Description != "사내 Knowledge Base 전용 검색" {
			t.Errorf("override not applied: %q", spec.Description)
		}
		if spec.Name == "predict_quality" && !strings.Contains(spec.Description, "품질 예측 도구") {
			t.Errorf("untouched spec was modified: %q", spec.Description)
		}
	}
}

func TestLoadCatalogUnknownTool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("tools:\n  - name: bogus\n    description: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Error("expected error for unknown tool name")
	}
}
