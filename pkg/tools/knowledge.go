// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"fmt"
	"time"
)

// SearchInvoker calls the knowledge-retrieval backend, which returns ranked
// source snippets plus an already-synthesized answer. The agent loop treats a
// non-empty answer as terminal (early exit), so this invoker performs no
// percentage post-processing.
type SearchInvoker struct {
	client *backendClient
	mock   bool
}

// NewSearchInvoker creates the search_knowledge_base invoker.
func NewSearchInvoker(url string, signer *Signer, timeout time.Duration, mock bool) *SearchInvoker {
	return &SearchInvoker{
		client: newBackendClient(url, signer, timeout),
		mock:   mock,
	}
}

// Invoke implements Invoker.
func (s *SearchInvoker) Invoke(ctx context.Context, input map[string]any) map[string]any {
	query, _ := input["query"].(string)
	if query == "" {
		return map[string]any{"error": "missing query"}
	}

	if s.mock {
		return map[string]any{
			"answer": fmt.Sprintf("'%s'에 대한 답변입니다.\n\n다이캐스팅 공정에서 해당 파라미터의 권장 범위와 관리 방법에 대해 설명드립니다.", query),
			"sources": []any{
				map[string]any{"title": "다이캐스팅 공정 가이드", "type": "Knowledge Base"},
			},
		}
	}

	result, err := s.client.post(ctx, map[string]any{"query": query})
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}

// Ensure SearchInvoker implements Invoker.
var _ Invoker = (*SearchInvoker)(nil)
