package vectorizer

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/chunker"
	"resumatch/internal/domain"
	"resumatch/internal/embedding"
	"resumatch/internal/embedding/embeddingtest"
)

func newTestVectorizer(t *testing.T) (*Vectorizer, *embedding.Encoder) {
	t.Helper()
	enc := embedding.NewEncoder(embeddingtest.New())
	ch, err := chunker.NewWordChunker(10, 3)
	require.NoError(t, err)
	return New(enc, ch, nil), enc
}

func unitNorm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

func TestBuildChunkIndexAlignsMetadata(t *testing.T) {
	v, _ := newTestVectorizer(t)

	docs := []domain.Document{
		{ID: "r1", Source: "resume.txt", Text: "one two three four five six seven eight nine ten eleven twelve"},
		{ID: "j1", Source: "job.txt", Section: "full", Text: "python developer wanted"},
	}
	idx, metas, err := v.BuildChunkIndex(context.Background(), docs)
	require.NoError(t, err)
	require.Equal(t, idx.Size(), len(metas))

	// r1 has 12 words -> two windows at size 10/overlap 3; j1 has one
	require.Len(t, metas, 3)
	assert.Equal(t, "r1", metas[0].DocID)
	assert.Equal(t, 0, metas[0].ChunkIndex)
	assert.Equal(t, "r1", metas[1].DocID)
	assert.Equal(t, 1, metas[1].ChunkIndex)
	assert.Equal(t, "j1", metas[2].DocID)
	assert.Equal(t, "full", metas[2].Section)
	assert.Contains(t, metas[2].Preview, "python")
}

func TestBuildChunkIndexEmptyDocumentsFail(t *testing.T) {
	v, _ := newTestVectorizer(t)

	_, _, err := v.BuildChunkIndex(context.Background(), []domain.Document{
		{ID: "a", Text: ""},
		{ID: "b", Text: "   \n"},
	})
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
}

func TestBuildChunkIndexSkipsEmptyAmongFull(t *testing.T) {
	v, _ := newTestVectorizer(t)

	idx, metas, err := v.BuildChunkIndex(context.Background(), []domain.Document{
		{ID: "empty", Text: ""},
		{ID: "real", Text: "golang developer"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Size())
	require.Len(t, metas, 1)
	assert.Equal(t, "real", metas[0].DocID)
}

func TestDocVectorSkillsOnlyDegeneratesToSkillsVector(t *testing.T) {
	v, enc := newTestVectorizer(t)
	ctx := context.Background()

	got, err := v.DocVector(ctx, domain.SectionedText{Skills: []string{"Python", "SQL"}})
	require.NoError(t, err)

	// with one present section the weighted average divides by its own
	// weight, so the result is exactly the normalized skills vector
	want, err := enc.Encode(ctx, []string{"Python, SQL"})
	require.NoError(t, err)
	require.Len(t, got, len(want[0]))
	for i := range got {
		assert.InDelta(t, want[0][i], got[i], 1e-6, "component %d", i)
	}
}

func TestDocVectorSectionWeightOrdering(t *testing.T) {
	v, enc := newTestVectorizer(t)
	ctx := context.Background()

	skills := "kubernetes terraform"
	experience := "ran a bakery for years"
	doc := domain.SectionedText{
		Skills:     []string{"kubernetes", "terraform"},
		Experience: experience,
	}
	vec, err := v.DocVector(ctx, doc)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, unitNorm(vec), 1e-5)

	probes, err := enc.Encode(ctx, []string{skills, experience})
	require.NoError(t, err)
	skillsSim := embedding.Dot(vec, probes[0])
	expSim := embedding.Dot(vec, probes[1])
	assert.Greater(t, skillsSim, expSim, "skills must dominate the combined vector")
}

func TestDocVectorFallsBackToFullText(t *testing.T) {
	v, enc := newTestVectorizer(t)
	ctx := context.Background()

	vec, err := v.DocVector(ctx, domain.SectionedText{Full: "plain resume text"})
	require.NoError(t, err)
	want, err := enc.Encode(ctx, []string{"plain resume text"})
	require.NoError(t, err)
	assert.Equal(t, want[0], vec)
}

func TestDocVectorEmptyTextYieldsZeroVector(t *testing.T) {
	v, _ := newTestVectorizer(t)

	vec, err := v.DocVector(context.Background(), domain.FullText(""))
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 64), vec)
}

func TestBuildDocEmbeddingsUsesParsedWhenPresent(t *testing.T) {
	v, enc := newTestVectorizer(t)
	ctx := context.Background()

	parsed := &domain.Parsed{
		Skills:   []string{"Go", "Rust"},
		Sections: map[string]string{"full": "irrelevant"},
	}
	docs := []domain.Document{
		{ID: "r1", Source: "a", Text: "completely different words here", Parsed: parsed},
		{ID: "j1", Source: "b", Text: "plain job text"},
	}
	vecs, metas, err := v.BuildDocEmbeddings(ctx, docs)
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	require.Len(t, metas, 2)
	assert.Equal(t, "r1", metas[0].ID)
	assert.Same(t, parsed, metas[0].Parsed)

	want, err := enc.Encode(ctx, []string{"Go, Rust"})
	require.NoError(t, err)
	for i := range vecs[0] {
		assert.InDelta(t, want[0][i], vecs[0][i], 1e-6)
	}
}
