package vectorstore

import "resumatch/internal/domain"

// Store persists chunk vectors and supports similarity search over them.
// Vectors are assumed L2-normalized by the caller; scores are inner products.
type Store interface {
	Init(dimension int) error
	Upsert(metas []domain.ChunkMeta, vectors [][]float32) error
	Search(vector []float32, topK int) ([]Result, error)
	Clear() error
}

// Result is a matching chunk with its relevance score.
type Result struct {
	Meta  domain.ChunkMeta
	Score float32
}
