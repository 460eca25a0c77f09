// Package retrieval grounds the general mentor's answers in the knowledge
// base. The vector search itself is an external RPC; this package embeds
// the query, calls the searcher, formats the chunks for the system prompt
// and reports source ids through the Collector.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/dentalschoolguide/eden-agent/internal/domain"
	"github.com/dentalschoolguide/eden-agent/internal/observability"
)

// Embedder produces a query embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Match is one row returned by the external vector search.
type Match struct {
	ContextID    domain.SourceID `json:"context_id"`
	SourceName   string          `json:"source_name"`
	SourceURL    string          `json:"source_url"`
	ContentChunk string          `json:"content_chunk"`
	ChunkIndex   int             `json:"chunk_index"`
	Similarity   float64         `json:"similarity"`
}

// VectorSearcher is the external vector-search RPC boundary.
type VectorSearcher interface {
	Search(ctx context.Context, embedding []float32, threshold float64, count int) ([]Match, error)
}

// Retriever fetches knowledge-base context for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, collector *Collector) (string, error)
}

const (
	matchThreshold = 0.3
	matchCount     = 15
)

// LessonRetriever implements Retriever over an embedder and the vector
// search RPC.
type LessonRetriever struct {
	embedder Embedder
	searcher VectorSearcher
}

func NewLessonRetriever(embedder Embedder, searcher VectorSearcher) *LessonRetriever {
	return &LessonRetriever{embedder: embedder, searcher: searcher}
}

// Retrieve returns formatted knowledge-base context for the query and
// records the contributing source ids in the collector.
func (r *LessonRetriever) Retrieve(ctx context.Context, query string, collector *Collector) (string, error) {
	log := observability.LoggerFromContext(ctx)

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embedding query: %w", err)
	}

	matches, err := r.searcher.Search(ctx, embedding, matchThreshold, matchCount)
	if err != nil {
		return "", fmt.Errorf("vector search: %w", err)
	}
	if len(matches) == 0 {
		return "No relevant information found in the knowledge base.", nil
	}

	// Discount questions get a stricter cut so unrelated chunks never
	// convince the model we have a partner discount we don't.
	if isDiscountQuery(query) {
		if filtered := filterDiscountMatches(matches); len(filtered) > 0 {
			matches = filtered
		}
	}

	var b strings.Builder
	for i, m := range matches {
		if collector != nil {
			collector.Add(m.ContextID)
		}

		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		name := m.SourceName
		if name == "" {
			name = "Knowledge Base"
		}
		fmt.Fprintf(&b, "[Source %d: %s]\n", i+1, name)
		if m.SourceURL != "" {
			fmt.Fprintf(&b, "SOURCE_URL: %s\n", m.SourceURL)
		}
		fmt.Fprintf(&b, "Chunk #%d, Similarity: %.1f%%\n%s", m.ChunkIndex, m.Similarity*100, m.ContentChunk)
	}

	log.Debug("retrieved knowledge base context", "matches", len(matches))
	return b.String(), nil
}

var discountTerms = []string{"discount", "promo code", "coupon", "promo", "code"}

func isDiscountQuery(query string) bool {
	lower := strings.ToLower(query)
	for _, term := range discountTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func filterDiscountMatches(matches []Match) []Match {
	var out []Match
	for _, m := range matches {
		text := strings.ToLower(m.ContentChunk + " " + m.SourceName)
		if strings.Contains(text, "discount") ||
			strings.Contains(text, "promo") ||
			strings.Contains(text, "coupon") ||
			strings.Contains(text, "code") {
			out = append(out, m)
		}
	}
	return out
}
