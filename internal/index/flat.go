package index

import (
	"fmt"
	"sort"

	"resumatch/internal/domain"
	"resumatch/internal/embedding"
)

// Flat is an exact nearest-neighbor index over normalized vectors, ranked by
// inner product. Rows keep insertion order; the row position is the join key
// into the caller's metadata. There is no update or delete: a changed corpus
// means a full rebuild.
//
// The index does not normalize internally. Presenting unnormalized vectors is
// a caller bug that silently skews rankings, not a runtime error.
type Flat struct {
	dim     int
	vectors [][]float32
}

// Hit is one search result: the row's score and its position in the index.
type Hit struct {
	Score    float32
	Position int
}

// Build creates an index from the given vectors. All rows must share one
// dimension and at least one row is required.
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no vectors to index", domain.ErrEmptyBatch)
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: row %d has dimension %d, want %d", domain.ErrConfiguration, i, len(v), dim)
		}
	}
	return &Flat{dim: dim, vectors: vectors}, nil
}

// Size returns the number of indexed rows.
func (f *Flat) Size() int { return len(f.vectors) }

// Dimension returns the vector dimension.
func (f *Flat) Dimension() int { return f.dim }

// Search returns the min(k, Size) best rows by descending inner product.
// Equal scores keep insertion order, so results are deterministic.
func (f *Flat) Search(query []float32, k int) []Hit {
	if k <= 0 || len(f.vectors) == 0 {
		return nil
	}
	hits := make([]Hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = Hit{Score: embedding.Dot(query, v), Position: i}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k]
}
