// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/relevance-engine/internal/httputil"
)

// RemoteModel calls an OpenAI-compatible embeddings endpoint. Determinism is
// part of the provider contract for a pinned model version; the cache layer
// assumes it.
type RemoteModel struct {
	Client   *http.Client
	Endpoint string
	APIKey   string
	ModelID  string
	Dim      int
}

// NewRemoteModel builds a remote model client.
func NewRemoteModel(client *http.Client, endpoint, apiKey, modelID string, dim int) *RemoteModel {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteModel{
		Client:   client,
		Endpoint: endpoint,
		APIKey:   apiKey,
		ModelID:  modelID,
		Dim:      dim,
	}
}

// Name returns the remote model identifier.
func (m *RemoteModel) Name() string { return m.ModelID }

// Dimensions returns the configured dimensionality.
func (m *RemoteModel) Dimensions() int { return m.Dim }

// Embed requests one embedding, retrying on HTTP 429 with backoff.
func (m *RemoteModel) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: m.ModelID, Input: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("encoding embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, m.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("embedding API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API returned HTTP %d", resp.StatusCode)
	}

	var er embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing embedding response: %w", err)
	}
	if len(er.Data) == 0 {
		return nil, fmt.Errorf("embedding API returned no data")
	}

	return er.Data[0].Embedding, nil
}

// Embedding API JSON structures (OpenAI-compatible).
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}
