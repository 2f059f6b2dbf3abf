package vectorizer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"resumatch/internal/chunker"
	"resumatch/internal/domain"
	"resumatch/internal/embedding"
	"resumatch/internal/index"
)

// Section weights bias document similarity toward skills over experience over
// education. The denominator is the sum of weights actually present, so a
// document with only a skills section is ranked purely on it.
const (
	skillsWeight     = 0.5
	experienceWeight = 0.3
	educationWeight  = 0.2
)

// Vectorizer turns documents into vectors, either chunk-by-chunk for a
// retrieval index or one vector per document for whole-document matching.
type Vectorizer struct {
	enc *embedding.Encoder
	ch  *chunker.WordChunker
	log *zap.Logger
}

// New creates a Vectorizer. The logger may be nil.
func New(enc *embedding.Encoder, ch *chunker.WordChunker, log *zap.Logger) *Vectorizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Vectorizer{enc: enc, ch: ch, log: log}
}

// ChunkEmbeddings chunks every document and encodes all chunks in a single
// batch, returning row-aligned vectors and metadata. Documents with no words
// contribute no chunks; if no document contributes any, the call fails with
// ErrEmptyBatch.
func (v *Vectorizer) ChunkEmbeddings(ctx context.Context, docs []domain.Document) ([][]float32, []domain.ChunkMeta, error) {
	var texts []string
	var metas []domain.ChunkMeta
	for _, doc := range docs {
		section := doc.Section
		if section == "" {
			section = "full"
		}
		for i, ch := range v.ch.Chunk(doc.Text) {
			texts = append(texts, ch)
			metas = append(metas, domain.ChunkMeta{
				DocID:      doc.ID,
				Source:     doc.Source,
				Section:    section,
				ChunkIndex: i,
				Preview:    domain.Preview(ch),
			})
		}
	}
	if len(texts) == 0 {
		return nil, nil, fmt.Errorf("%w: no chunks produced from %d documents", domain.ErrEmptyBatch, len(docs))
	}

	vecs, err := v.enc.Encode(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding %d chunks: %w", len(texts), err)
	}
	return vecs, metas, nil
}

// BuildChunkIndex builds an exact index over the chunk embeddings with
// row-aligned metadata.
func (v *Vectorizer) BuildChunkIndex(ctx context.Context, docs []domain.Document) (*index.Flat, []domain.ChunkMeta, error) {
	vecs, metas, err := v.ChunkEmbeddings(ctx, docs)
	if err != nil {
		return nil, nil, err
	}
	idx, err := index.Build(vecs)
	if err != nil {
		return nil, nil, err
	}
	v.log.Debug("built chunk index",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", idx.Size()),
		zap.Int("dimension", idx.Dimension()),
	)
	return idx, metas, nil
}

// DocVector produces a single unit vector for one document input.
func (v *Vectorizer) DocVector(ctx context.Context, in domain.DocumentInput) ([]float32, error) {
	switch doc := in.(type) {
	case domain.FullText:
		return v.encodeOne(ctx, string(doc))
	case domain.SectionedText:
		return v.sectionVector(ctx, doc)
	default:
		return nil, fmt.Errorf("%w: unknown document input %T", domain.ErrConfiguration, in)
	}
}

// sectionVector combines the present sections by fixed weight, normalizing by
// the weight mass actually used, then rescales to unit length. With no
// section present it falls back to the full text.
func (v *Vectorizer) sectionVector(ctx context.Context, doc domain.SectionedText) ([]float32, error) {
	var texts []string
	var weights []float32
	if len(doc.Skills) > 0 {
		texts = append(texts, strings.Join(doc.Skills, ", "))
		weights = append(weights, skillsWeight)
	}
	if strings.TrimSpace(doc.Experience) != "" {
		texts = append(texts, doc.Experience)
		weights = append(weights, experienceWeight)
	}
	if strings.TrimSpace(doc.Education) != "" {
		texts = append(texts, doc.Education)
		weights = append(weights, educationWeight)
	}
	if len(texts) == 0 {
		return v.encodeOne(ctx, doc.Full)
	}

	vecs, err := v.enc.Encode(ctx, texts)
	if err != nil {
		return nil, err
	}
	var totalWeight float32
	combined := make([]float32, len(vecs[0]))
	for i, vec := range vecs {
		w := weights[i]
		totalWeight += w
		for j, x := range vec {
			combined[j] += x * w
		}
	}
	for j := range combined {
		combined[j] /= totalWeight
	}
	return embedding.Normalize(combined), nil
}

// BuildDocEmbeddings returns one vector per document plus aligned metadata,
// taking the section-weighted path whenever a parsed breakdown exists.
func (v *Vectorizer) BuildDocEmbeddings(ctx context.Context, docs []domain.Document) ([][]float32, []domain.DocMeta, error) {
	if len(docs) == 0 {
		return nil, nil, fmt.Errorf("%w: no documents", domain.ErrEmptyBatch)
	}
	vecs := make([][]float32, len(docs))
	metas := make([]domain.DocMeta, len(docs))
	for i, doc := range docs {
		vec, err := v.DocVector(ctx, doc.Input())
		if err != nil {
			return nil, nil, fmt.Errorf("vectorizing document %q: %w", doc.ID, err)
		}
		vecs[i] = vec
		metas[i] = domain.DocMeta{ID: doc.ID, Source: doc.Source, Parsed: doc.Parsed}
	}
	return vecs, metas, nil
}

func (v *Vectorizer) encodeOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := v.enc.Encode(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}
