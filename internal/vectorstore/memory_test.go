package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/domain"
)

func TestMemoryStoreSearchOrdersByScore(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Init(2))

	metas := []domain.ChunkMeta{
		{DocID: "a", ChunkIndex: 0},
		{DocID: "b", ChunkIndex: 0},
		{DocID: "c", ChunkIndex: 0},
	}
	vectors := [][]float32{
		{0, 1},
		{1, 0},
		{0.6, 0.8},
	}
	require.NoError(t, s.Upsert(metas, vectors))

	results, err := s.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "b", results[0].Meta.DocID)
	assert.Equal(t, "c", results[1].Meta.DocID)
	assert.Equal(t, "a", results[2].Meta.DocID)
}

func TestMemoryStoreTiesKeepInsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Init(2))

	metas := []domain.ChunkMeta{{DocID: "first"}, {DocID: "second"}}
	vectors := [][]float32{{1, 0}, {1, 0}}
	require.NoError(t, s.Upsert(metas, vectors))

	results, err := s.Search([]float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Meta.DocID)
	assert.Equal(t, "second", results[1].Meta.DocID)
}

func TestMemoryStoreValidation(t *testing.T) {
	s := NewMemoryStore()
	assert.Error(t, s.Init(0))
	require.NoError(t, s.Init(3))

	err := s.Upsert([]domain.ChunkMeta{{DocID: "a"}}, nil)
	assert.Error(t, err)

	err = s.Upsert([]domain.ChunkMeta{{DocID: "a"}}, [][]float32{{1, 2}})
	assert.Error(t, err)
}

func TestMemoryStoreClearKeepsDimension(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert([]domain.ChunkMeta{{DocID: "a"}}, [][]float32{{1, 0}}))
	require.NoError(t, s.Clear())

	results, err := s.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	// dimension survives Clear
	require.NoError(t, s.Upsert([]domain.ChunkMeta{{DocID: "b"}}, [][]float32{{0, 1}}))
}

func TestMemoryStoreDefaultTopK(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Init(1))
	metas := make([]domain.ChunkMeta, 8)
	vectors := make([][]float32, 8)
	for i := range metas {
		metas[i] = domain.ChunkMeta{DocID: "d", ChunkIndex: i}
		vectors[i] = []float32{float32(i)}
	}
	require.NoError(t, s.Upsert(metas, vectors))

	results, err := s.Search([]float32{1}, 0)
	require.NoError(t, err)
	assert.Len(t, results, 5)
}
