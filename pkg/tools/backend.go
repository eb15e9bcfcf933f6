// Copyright 2026 © The Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds each backend call.
const DefaultTimeout = 30 * time.Second

// Signer produces request-authentication headers for backend calls.
type Signer struct {
	key []byte
	now func() time.Time
}

// NewSigner creates a Signer over a shared HMAC key. An empty key disables
// signing (useful against local unauthenticated backends).
func NewSigner(key string) *Signer {
	return &Signer{key: []byte(key), now: time.Now}
}

// Sign stamps date and signature headers onto the request. The signature is
// HMAC-SHA256 over "method\ndate\nsha256(body)".
func (s *Signer) Sign(req *http.Request, body []byte) {
	if len(s.key) == 0 {
		return
	}
	date := s.now().UTC().Format(time.RFC3339)
	payloadHash := sha256.Sum256(body)

	mac := hmac.New(sha256.New, s.key)
	fmt.Fprintf(mac, "%s\n%s\n%s", req.Method, date, hex.EncodeToString(payloadHash[:]))

	req.Header.Set("X-Foundry-Date", date)
	req.Header.Set("X-Foundry-Signature", hex.EncodeToString(mac.Sum(nil)))
}

// backendClient performs one authenticated JSON call per invocation and
// normalizes the heterogeneous response envelope.
type backendClient struct {
	url    string
	signer *Signer
	client *http.Client
}

func newBackendClient(url string, signer *Signer, timeout time.Duration) *backendClient {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if signer == nil {
		signer = NewSigner("")
	}
	return &backendClient{
		url:    url,
		signer: signer,
		client: &http.Client{Timeout: timeout},
	}
}

// post sends the payload and returns the unwrapped response body.
func (c *backendClient) post(ctx context.Context, payload map[string]any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal backend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.signer.Sign(req, body)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode backend response: %w", err)
	}
	return unwrapEnvelope(data)
}

// unwrapEnvelope unwraps exactly one level of the {"body": ...} nesting some
// backends produce, where body may itself be a JSON-encoded string.
func unwrapEnvelope(data map[string]any) (map[string]any, error) {
	raw, ok := data["body"]
	if !ok {
		return data, nil
	}
	switch body := raw.(type) {
	case map[string]any:
		return body, nil
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(body), &decoded); err != nil {
			return nil, fmt.Errorf("decode double-encoded body: %w", err)
		}
		return decoded, nil
	default:
		return data, nil
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
