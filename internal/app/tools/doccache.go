package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// DocCache fetches reference documents over HTTP and keeps them for a TTL.
// It is injected into every document-backed tool so the process carries no
// hidden module-level cache state.
type DocCache struct {
	client *http.Client
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	content   string
	fetchedAt time.Time
}

// NewDocCache creates a cache with the given TTL. A nil client falls back
// to http.DefaultClient.
func NewDocCache(client *http.Client, ttl time.Duration) *DocCache {
	if client == nil {
		client = http.DefaultClient
	}
	return &DocCache{
		client:  client,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Fetch returns the body of url, from cache when fresh.
func (c *DocCache) Fetch(ctx context.Context, url string) (string, error) {
	c.mu.Lock()
	if e, ok := c.entries[url]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return e.content, nil
	}
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching document: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading document body: %w", err)
	}

	content := string(body)
	c.mu.Lock()
	c.entries[url] = cacheEntry{content: content, fetchedAt: c.now()}
	c.mu.Unlock()

	return content, nil
}
