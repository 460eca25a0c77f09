package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocCacheFetchCachesWithinTTL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("doc body"))
	}))
	defer srv.Close()

	cache := NewDocCache(srv.Client(), 10*time.Minute)

	for i := 0; i < 3; i++ {
		content, err := cache.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "doc body", content)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestDocCacheRefetchesAfterTTL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("doc body"))
	}))
	defer srv.Close()

	cache := NewDocCache(srv.Client(), 10*time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }

	_, err := cache.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	now = now.Add(11 * time.Minute)
	_, err = cache.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
}

func TestDocCacheFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	cache := NewDocCache(srv.Client(), time.Minute)
	_, err := cache.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
