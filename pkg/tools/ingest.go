// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"time"
)

// IngestClient drives the knowledge-base ingest backend: starting ingest jobs
// and polling their status. It is a pure passthrough; the backend's response
// is surfaced to the caller untouched apart from envelope unwrapping.
type IngestClient struct {
	client *backendClient
	mock   bool
}

// NewIngestClient creates a client for the kb-ingest backend.
func NewIngestClient(url string, signer *Signer, timeout time.Duration, mock bool) *IngestClient {
	return &IngestClient{
		client: newBackendClient(url, signer, timeout),
		mock:   mock,
	}
}

// Run submits an ingest action. jobID is optional; status polls include it.
// Failures come back as error-shaped results, matching the invoker contract.
func (c *IngestClient) Run(ctx context.Context, action, jobID string) map[string]any {
	if c.mock {
		result := map[string]any{"status": "accepted", "action": action}
		if jobID != "" {
			result["job_id"] = jobID
		}
		return result
	}

	body := map[string]any{"action": action}
	if jobID != "" {
		body["job_id"] = jobID
	}

	result, err := c.client.post(ctx, map[string]any{"body": body})
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
