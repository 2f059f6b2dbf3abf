package retriever

import (
	"context"
	"fmt"

	"resumatch/internal/domain"
	"resumatch/internal/embedding"
	"resumatch/internal/index"
)

// Result is one retrieved chunk: its similarity score and the metadata stored
// at the matching index position.
type Result struct {
	Score float32
	Meta  domain.ChunkMeta
}

// Retrieve encodes the query, searches the index, and joins hits with their
// metadata by position. It returns at most topK results, fewer when the index
// holds fewer rows. Sentinel negative positions are skipped.
func Retrieve(ctx context.Context, query string, idx *index.Flat, metas []domain.ChunkMeta, topK int, enc *embedding.Encoder) ([]Result, error) {
	qv, err := enc.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	hits := idx.Search(qv[0], topK)
	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		if h.Position < 0 || h.Position >= len(metas) {
			continue
		}
		results = append(results, Result{Score: h.Score, Meta: metas[h.Position]})
	}
	return results, nil
}
