// Package search calls the external vector-search RPC that backs the
// knowledge base.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dentalschoolguide/eden-agent/internal/app/retrieval"
)

// Client implements retrieval.VectorSearcher over a JSON POST endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

// NewClient builds a searcher for the given endpoint. apiKey is optional;
// when set it is sent as a bearer token.
func NewClient(url, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		url:        url,
		apiKey:     apiKey,
	}
}

type searchRequest struct {
	QueryEmbedding []float32 `json:"query_embedding"`
	MatchThreshold float64   `json:"match_threshold"`
	MatchCount     int       `json:"match_count"`
}

func (c *Client) Search(ctx context.Context, embedding []float32, threshold float64, count int) ([]retrieval.Match, error) {
	body, err := json.Marshal(searchRequest{
		QueryEmbedding: embedding,
		MatchThreshold: threshold,
		MatchCount:     count,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling vector search: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("vector search returned %d: %s", res.StatusCode, snippet)
	}

	var matches []retrieval.Match
	if err := json.NewDecoder(res.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return matches, nil
}
