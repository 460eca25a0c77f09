package retrieval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalschoolguide/eden-agent/internal/app/retrieval"
	"github.com/dentalschoolguide/eden-agent/internal/domain"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

type fakeSearcher struct {
	matches []retrieval.Match
}

func (f fakeSearcher) Search(ctx context.Context, embedding []float32, threshold float64, count int) ([]retrieval.Match, error) {
	return f.matches, nil
}

func TestRetrieveCollectsSourceIDs(t *testing.T) {
	r := retrieval.NewLessonRetriever(fakeEmbedder{}, fakeSearcher{matches: []retrieval.Match{
		{ContextID: "ctx-1", SourceName: "Admissions Guide", SourceURL: "https://example.com/guide", ContentChunk: "Apply in June.", ChunkIndex: 0, Similarity: 0.9},
		{ContextID: "ctx-2", SourceName: "DAT Handbook", ContentChunk: "The DAT is scored out of 30.", ChunkIndex: 3, Similarity: 0.8},
		{ContextID: "ctx-1", SourceName: "Admissions Guide", ContentChunk: "Rolling admissions favor early applicants.", ChunkIndex: 1, Similarity: 0.7},
	}})

	collector := retrieval.NewCollector()
	out, err := r.Retrieve(context.Background(), "when should I apply?", collector)
	require.NoError(t, err)

	assert.Contains(t, out, "[Source 1: Admissions Guide]")
	assert.Contains(t, out, "SOURCE_URL: https://example.com/guide")
	assert.Contains(t, out, "Apply in June.")
	assert.Equal(t, []domain.SourceID{"ctx-1", "ctx-2"}, collector.SourceIDs())
}

func TestRetrieveNoMatches(t *testing.T) {
	r := retrieval.NewLessonRetriever(fakeEmbedder{}, fakeSearcher{})

	out, err := r.Retrieve(context.Background(), "anything", retrieval.NewCollector())
	require.NoError(t, err)
	assert.Equal(t, "No relevant information found in the knowledge base.", out)
}

func TestRetrieveDiscountQueryFiltersMatches(t *testing.T) {
	r := retrieval.NewLessonRetriever(fakeEmbedder{}, fakeSearcher{matches: []retrieval.Match{
		{ContextID: "ctx-a", SourceName: "DAT Handbook", ContentChunk: "The DAT has four sections."},
		{ContextID: "ctx-b", SourceName: "Partner Discounts", ContentChunk: "Bootcamp discount code: SMILE10."},
	}})

	collector := retrieval.NewCollector()
	out, err := r.Retrieve(context.Background(), "do you have a Bootcamp discount code?", collector)
	require.NoError(t, err)

	assert.Contains(t, out, "SMILE10")
	assert.NotContains(t, out, "four sections")
	assert.Equal(t, []domain.SourceID{"ctx-b"}, collector.SourceIDs())
}
