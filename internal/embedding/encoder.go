package embedding

import (
	"context"
	"math"
	"strings"
	"sync"
)

// Provider converts a batch of texts into embedding vectors. Implementations
// wrap a pretrained model and are not required to be reentrant; the Encoder
// serializes access to them.
type Provider interface {
	// EmbedBatch returns one vector per input text, order-preserving.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension returns the model's output dimension. Remote providers may
	// return 0 until the first successful call.
	Dimension() int
	// Close releases resources held by the provider.
	Close() error
}

// Encoder produces L2-normalized vectors from text. It is the only component
// that talks to the embedding model; everything downstream receives the
// provider as an explicit dependency rather than through process-wide state.
type Encoder struct {
	mu       sync.Mutex
	provider Provider
}

// NewEncoder wraps the provider. Safe for use from concurrent callers.
func NewEncoder(p Provider) *Encoder {
	return &Encoder{provider: p}
}

// Encode maps texts to unit vectors, one per input, in input order.
// Empty or whitespace-only texts bypass the model and map to the zero vector.
func (e *Encoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var batch []string
	var positions []int
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		batch = append(batch, t)
		positions = append(positions, i)
	}

	if len(batch) > 0 {
		e.mu.Lock()
		vecs, err := e.provider.EmbedBatch(ctx, batch)
		e.mu.Unlock()
		if err != nil {
			return nil, err
		}
		for bi, pos := range positions {
			out[pos] = Normalize(vecs[bi])
		}
	}

	dim := e.Dimension()
	for i := range out {
		if out[i] == nil {
			out[i] = make([]float32, dim)
		}
	}
	return out, nil
}

// Dimension reports the provider's output dimension.
func (e *Encoder) Dimension() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.provider.Dimension()
}

// Close releases the underlying model.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.provider.Close()
}

// Normalize scales v to unit Euclidean length in place and returns it.
// A zero-norm vector is divided by 1.0 instead, so it stays zero rather than
// turning into NaN.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	inv := float32(1 / norm)
	for i := range v {
		v[i] *= inv
	}
	return v
}

// Dot is the inner product of two vectors. Over unit vectors it equals the
// cosine similarity.
func Dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
