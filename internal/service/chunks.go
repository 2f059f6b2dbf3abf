package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"resumatch/internal/domain"
	"resumatch/internal/embedding"
	"resumatch/internal/vectorizer"
	"resumatch/internal/vectorstore"
)

// Searcher is the chunk-level path: documents go into a pluggable chunk
// store and queries retrieve the closest passages.
type Searcher struct {
	vec   *vectorizer.Vectorizer
	enc   *embedding.Encoder
	store vectorstore.Store
	log   *zap.Logger
}

// NewSearcher creates a Searcher. The logger may be nil.
func NewSearcher(vec *vectorizer.Vectorizer, enc *embedding.Encoder, store vectorstore.Store, log *zap.Logger) *Searcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Searcher{vec: vec, enc: enc, store: store, log: log}
}

// IndexDocuments chunks, embeds and stores the documents, replacing any
// previous contents. It returns the number of chunks stored.
func (s *Searcher) IndexDocuments(ctx context.Context, docs []domain.Document) (int, error) {
	vecs, metas, err := s.vec.ChunkEmbeddings(ctx, docs)
	if err != nil {
		return 0, err
	}
	if err := s.store.Init(len(vecs[0])); err != nil {
		return 0, fmt.Errorf("initializing chunk store: %w", err)
	}
	if err := s.store.Upsert(metas, vecs); err != nil {
		return 0, fmt.Errorf("storing chunks: %w", err)
	}
	s.log.Info("documents indexed",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(metas)),
	)
	return len(metas), nil
}

// Search embeds the query and returns the closest stored chunks.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]vectorstore.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is blank", domain.ErrBadRequest)
	}
	vecs, err := s.enc.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}
	return s.store.Search(vecs[0], topK)
}
