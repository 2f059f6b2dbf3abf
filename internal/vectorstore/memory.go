package vectorstore

import (
	"errors"
	"sort"
	"sync"

	"resumatch/internal/domain"
	"resumatch/internal/embedding"
)

// MemoryStore is a brute-force in-memory store. Rows keep insertion order so
// equal scores rank deterministically.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
	metas     []domain.ChunkMeta
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// Init sets the vector dimension and drops any existing rows.
func (s *MemoryStore) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.metas = nil
	return nil
}

// Upsert appends rows; metadata and vectors must be aligned.
func (s *MemoryStore) Upsert(metas []domain.ChunkMeta, vectors [][]float32) error {
	if len(metas) != len(vectors) {
		return errors.New("metadata and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.metas = append(s.metas, metas...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns the topK rows by descending inner product, ties by insertion
// order.
func (s *MemoryStore) Search(vector []float32, topK int) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	type scored struct {
		pos   int
		score float32
	}
	rows := make([]scored, len(s.vectors))
	for i, v := range s.vectors {
		rows[i] = scored{pos: i, score: embedding.Dot(v, vector)}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })
	if topK > len(rows) {
		topK = len(rows)
	}
	results := make([]Result, 0, topK)
	for _, r := range rows[:topK] {
		results = append(results, Result{Meta: s.metas[r.pos], Score: r.score})
	}
	return results, nil
}

// Clear drops all rows but keeps the dimension.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.metas = nil
	return nil
}
