// Package embeddingtest provides a deterministic in-process embedding
// provider for tests. Texts sharing words map to nearby vectors, so ranking
// assertions hold without downloading a real model.
package embeddingtest

import (
	"context"
	"hash/fnv"
	"strings"
)

// Provider hashes each word into a fixed-dimension bag-of-words vector.
type Provider struct {
	Dim int
}

// New returns a provider with a 64-dimension output.
func New() *Provider { return &Provider{Dim: 64} }

// EmbedBatch returns one raw (unnormalized) vector per text.
func (p *Provider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = p.vector(t)
	}
	return out, nil
}

// Dimension returns the fixed output dimension.
func (p *Provider) Dimension() int { return p.Dim }

// Close is a no-op.
func (p *Provider) Close() error { return nil }

func (p *Provider) vector(text string) []float32 {
	v := make([]float32, p.Dim)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:()[]")
		if w == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(w))
		v[int(h.Sum32())%p.Dim]++
	}
	return v
}
