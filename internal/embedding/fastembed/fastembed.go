package fastembed

import (
	"context"
	"fmt"
	"path/filepath"

	fastembed "github.com/anush008/fastembed-go"

	"resumatch/internal/domain"
)

// DefaultModel matches the original pipeline's sentence-transformers default.
const DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"

// Config configures the local ONNX embedding provider.
type Config struct {
	// Model is the embedding model name. Friendly HuggingFace-style names and
	// fastembed's own names are both accepted.
	Model string
	// CacheDir is where downloaded model files are kept.
	CacheDir string
	// MaxLength is the maximum input sequence length in tokens.
	MaxLength int
}

// Provider generates embeddings with a local ONNX model. Loading the model is
// a one-time cost paid in the constructor; the handle is reused afterwards.
type Provider struct {
	model     *fastembed.FlagEmbedding
	dimension int
}

var modelNames = map[string]fastembed.EmbeddingModel{
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
	"BAAI/bge-small-en":                      fastembed.BGESmallEN,
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-base-en":                       fastembed.BGEBaseEN,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
}

var modelDimensions = map[fastembed.EmbeddingModel]int{
	fastembed.AllMiniLML6V2: 384,
	fastembed.BGESmallEN:    384,
	fastembed.BGESmallENV15: 384,
	fastembed.BGEBaseEN:     768,
	fastembed.BGEBaseENV15:  768,
}

// New initializes the model. The first run downloads model files into the
// cache directory.
func New(cfg Config) (*Provider, error) {
	name := cfg.Model
	if name == "" {
		name = DefaultModel
	}
	model, ok := modelNames[name]
	if !ok {
		model = fastembed.EmbeddingModel(name)
		if _, known := modelDimensions[model]; !known {
			return nil, fmt.Errorf("%w: unsupported embedding model %q", domain.ErrConfiguration, name)
		}
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(".", "local_cache")
	}
	maxLength := cfg.MaxLength
	if maxLength == 0 {
		maxLength = 512
	}

	showProgress := false
	flagEmbed, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                model,
		CacheDir:             cacheDir,
		MaxLength:            maxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing embedding model: %w", err)
	}

	return &Provider{model: flagEmbed, dimension: modelDimensions[model]}, nil
}

// EmbedBatch embeds all texts in one model invocation.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	vecs, err := p.model.Embed(texts, 256)
	if err != nil {
		return nil, fmt.Errorf("embedding batch of %d: %w", len(texts), err)
	}
	return vecs, nil
}

// Dimension returns the model's output dimension.
func (p *Provider) Dimension() int { return p.dimension }

// Close destroys the ONNX session.
func (p *Provider) Close() error {
	if p.model != nil {
		return p.model.Destroy()
	}
	return nil
}
