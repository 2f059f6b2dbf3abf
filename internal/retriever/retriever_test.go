package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/chunker"
	"resumatch/internal/domain"
	"resumatch/internal/embedding"
	"resumatch/internal/embedding/embeddingtest"
	"resumatch/internal/vectorizer"
)

func buildFixture(t *testing.T) (*embedding.Encoder, *vectorizer.Vectorizer) {
	t.Helper()
	enc := embedding.NewEncoder(embeddingtest.New())
	ch, err := chunker.NewWordChunker(150, 30)
	require.NoError(t, err)
	return enc, vectorizer.New(enc, ch, nil)
}

func TestRetrieveRanksRelevantChunksFirst(t *testing.T) {
	enc, v := buildFixture(t)
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "j1", Source: "dev.txt", Text: "We need a Python developer with expertise in SQL and data analytics."},
		{ID: "j2", Source: "chef.txt", Text: "Seeking a professional chef with 5 years kitchen management experience."},
	}
	idx, metas, err := v.BuildChunkIndex(ctx, docs)
	require.NoError(t, err)

	results, err := Retrieve(ctx, "python sql analytics", idx, metas, 2, enc)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "j1", results[0].Meta.DocID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestRetrieveReturnsAtMostTopK(t *testing.T) {
	enc, v := buildFixture(t)
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "a", Text: "alpha"},
		{ID: "b", Text: "beta"},
		{ID: "c", Text: "gamma"},
	}
	idx, metas, err := v.BuildChunkIndex(ctx, docs)
	require.NoError(t, err)

	results, err := Retrieve(ctx, "alpha", idx, metas, 2, enc)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// fewer rows than topK
	results, err = Retrieve(ctx, "alpha", idx, metas, 10, enc)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestRetrievePositionsNeverRepeat(t *testing.T) {
	enc, v := buildFixture(t)
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "a", Text: "shared words here"},
		{ID: "b", Text: "shared words here"},
		{ID: "c", Text: "shared words here"},
	}
	idx, metas, err := v.BuildChunkIndex(ctx, docs)
	require.NoError(t, err)

	results, err := Retrieve(ctx, "shared words", idx, metas, 3, enc)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, r := range results {
		require.False(t, seen[r.Meta.DocID], "doc %s returned twice", r.Meta.DocID)
		seen[r.Meta.DocID] = true
	}
}
