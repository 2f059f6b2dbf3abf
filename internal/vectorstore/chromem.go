package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"resumatch/internal/domain"
)

// ChromemStore persists chunks in an embedded chromem-go database. Vectors
// are precomputed by the encoder, so the collection's embedding function is
// never exercised.
type ChromemStore struct {
	mu         sync.Mutex
	db         *chromem.DB
	collection string
	dimension  int
}

// ChromemConfig configures the embedded store.
type ChromemConfig struct {
	// Path is the persistence directory. Empty means in-memory only.
	Path string
	// Collection is the collection name. Defaults to "resumatch_chunks".
	Collection string
	// Compress enables gzip compression of persisted data.
	Compress bool
}

// NewChromemStore opens (or creates) the database at cfg.Path.
func NewChromemStore(cfg ChromemConfig) (*ChromemStore, error) {
	if cfg.Collection == "" {
		cfg.Collection = "resumatch_chunks"
	}
	var db *chromem.DB
	var err error
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("opening chromem db: %w", err)
		}
	}
	return &ChromemStore{db: db, collection: cfg.Collection}, nil
}

// rejectEmbeddingFunc guards against paths that would ask chromem to embed;
// all vectors here are precomputed.
func rejectEmbeddingFunc(context.Context, string) ([]float32, error) {
	return nil, errors.New("embeddings are precomputed")
}

// Init recreates the collection for the given dimension.
func (s *ChromemStore) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	if err := s.db.DeleteCollection(s.collection); err != nil {
		return fmt.Errorf("resetting collection: %w", err)
	}
	_, err := s.db.GetOrCreateCollection(s.collection, nil, rejectEmbeddingFunc)
	return err
}

// Upsert stores chunks with their precomputed embeddings.
func (s *ChromemStore) Upsert(metas []domain.ChunkMeta, vectors [][]float32) error {
	if len(metas) != len(vectors) {
		return errors.New("metadata and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.db.GetOrCreateCollection(s.collection, nil, rejectEmbeddingFunc)
	if err != nil {
		return err
	}
	docs := make([]chromem.Document, len(metas))
	for i, m := range metas {
		if len(vectors[i]) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("%s:%d", m.DocID, m.ChunkIndex),
			Content:   m.Preview,
			Embedding: vectors[i],
			Metadata: map[string]string{
				"doc_id":      m.DocID,
				"source":      m.Source,
				"section":     m.Section,
				"chunk_index": strconv.Itoa(m.ChunkIndex),
			},
		}
	}
	if err := col.AddDocuments(context.Background(), docs, 1); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}
	return nil
}

// Search queries by precomputed embedding. chromem requires topK to be at
// most the stored document count, so it is capped here.
func (s *ChromemStore) Search(vector []float32, topK int) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if topK <= 0 {
		topK = 5
	}
	col := s.db.GetCollection(s.collection, rejectEmbeddingFunc)
	if col == nil {
		return nil, nil
	}
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}
	hits, err := col.QueryEmbedding(context.Background(), vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}
	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		chunkIndex, _ := strconv.Atoi(h.Metadata["chunk_index"])
		results = append(results, Result{
			Score: h.Similarity,
			Meta: domain.ChunkMeta{
				DocID:      h.Metadata["doc_id"],
				Source:     h.Metadata["source"],
				Section:    h.Metadata["section"],
				ChunkIndex: chunkIndex,
				Preview:    h.Content,
			},
		})
	}
	return results, nil
}

// Clear drops the collection.
func (s *ChromemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.DeleteCollection(s.collection)
}
