// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/castwise/foundry/pkg/llm"
)

// Catalog returns the tool specs advertised to the planner. Descriptions carry
// the operator-facing usage guidance verbatim; they steer when the planner
// reaches for each capability.
func Catalog() []llm.ToolSpec {
	return []llm.ToolSpec{
		{
			Name: PredictQuality.String(),
			Description: `품질 예측 도구. 현재 공정 파라미터를 기반으로 제품이 양품/불량인지 예측합니다.
사용 시점:
- 사용자가 현재 조건에서 품질을 예측해달라고 할 때
- 불량 가능성, 양품 확률을 물어볼 때
- "예측해줘", "불량일까?", "품질 판정" 등의 질문`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"features": map[string]any{
						"type":        "object",
						"description": "공정 파라미터 딕셔너리 (센서값들)",
					},
				},
				"required": []any{"features"},
			},
		},
		{
			Name: AnalyzeImportance.String(),
			Description: `Feature Importance 분석 도구. 품질에 영향을 미치는 주요 변수를 분석합니다.
사용 시점:
- 어떤 변수가 품질에 영향을 미치는지 물어볼 때
- 불량 원인을 분석해달라고 할 때
- "왜 불량이야?", "영향 요인", "중요 변수" 등의 질문
주의: 이 도구를 사용하기 전에 반드시 predict_quality를 먼저 호출해야 합니다.`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"features": map[string]any{
						"type":        "object",
						"description": "공정 파라미터 딕셔너리",
					},
					"latent_features": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "number"},
						"description": "predict_quality에서 반환된 latent_features",
					},
				},
				"required": []any{"features", "latent_features"},
			},
		},
		{
			Name: SearchKnowledge.String(),
			Description: `공정 지식 검색 도구. Knowledge Base에서 관련 문서를 검색합니다.
사용 시점:
- 장비 스펙, 권장 범위를 물어볼 때
- SOP, 매뉴얼 내용을 찾을 때
- 트러블슈팅 가이드가 필요할 때
- "권장 범위", "스펙", "어떻게 해결", "방법" 등의 질문`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "검색할 질문 또는 키워드",
					},
				},
				"required": []any{"query"},
			},
		},
	}
}

// catalogOverride is one entry of the operator-editable catalog file.
type catalogOverride struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// LoadCatalog returns the built-in catalog with per-tool description overrides
// applied from a YAML file. An empty path returns the built-in catalog.
func LoadCatalog(path string) ([]llm.ToolSpec, error) {
	specs := Catalog()
	if path == "" {
		return specs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tool catalog %s: %w", path, err)
	}

	var doc struct {
		Tools []catalogOverride `yaml:"tools"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tool catalog %s: %w", path, err)
	}

	for _, ov := range doc.Tools {
		if _, ok := ParseName(ov.Name); !ok {
			return nil, fmt.Errorf("tool catalog %s: unknown tool %q", path, ov.Name)
		}
		for i := range specs {
			if specs[i].Name == ov.Name && ov.Description != "" {
				specs[i].Description = ov.Description
			}
		}
	}
	return specs, nil
}
