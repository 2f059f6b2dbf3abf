package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider maps each text to a deterministic bag-of-words vector. Texts
// sharing words get similar vectors, which is enough to exercise ranking
// behavior without a real model.
type fakeProvider struct {
	dim   int
	calls int
}

func (f *fakeProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = bagOfWords(t, f.dim)
	}
	return out, nil
}

func (f *fakeProvider) Dimension() int { return f.dim }
func (f *fakeProvider) Close() error   { return nil }

func bagOfWords(text string, dim int) []float32 {
	v := make([]float32, dim)
	word := make([]rune, 0, 16)
	flush := func() {
		if len(word) == 0 {
			return
		}
		h := fnv.New32a()
		for _, r := range word {
			h.Write([]byte(string(r)))
		}
		v[int(h.Sum32())%dim]++
		word = word[:0]
	}
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' || r == ',' || r == '.' {
			flush()
			continue
		}
		word = append(word, r)
	}
	flush()
	return v
}

func norm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

func TestEncodeReturnsUnitVectors(t *testing.T) {
	enc := NewEncoder(&fakeProvider{dim: 16})

	vecs, err := enc.Encode(context.Background(), []string{"python sql pandas", "chef kitchen"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	for i, v := range vecs {
		assert.InDelta(t, 1.0, norm(v), 1e-5, "row %d", i)
	}
}

func TestEncodeEmptyTextYieldsZeroVector(t *testing.T) {
	p := &fakeProvider{dim: 8}
	enc := NewEncoder(p)

	vecs, err := enc.Encode(context.Background(), []string{"", "   ", "real text"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, make([]float32, 8), vecs[0])
	assert.Equal(t, make([]float32, 8), vecs[1])
	assert.InDelta(t, 1.0, norm(vecs[2]), 1e-5)
	// empty rows must not reach the provider
	assert.Equal(t, 1, p.calls)
}

func TestEncodeAllEmptySkipsProvider(t *testing.T) {
	p := &fakeProvider{dim: 8}
	enc := NewEncoder(p)

	vecs, err := enc.Encode(context.Background(), []string{"", ""})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Zero(t, p.calls)
}

func TestEncodePreservesOrder(t *testing.T) {
	enc := NewEncoder(&fakeProvider{dim: 32})

	texts := []string{"alpha beta", "", "gamma delta", "alpha beta"}
	vecs, err := enc.Encode(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, 4)
	assert.Equal(t, vecs[0], vecs[3])
	assert.NotEqual(t, vecs[0], vecs[2])
}

func TestNormalizeZeroGuard(t *testing.T) {
	v := []float32{0, 0, 0}
	got := Normalize(v)
	assert.Equal(t, []float32{0, 0, 0}, got)
	for _, x := range got {
		assert.False(t, math.IsNaN(float64(x)))
	}
}

func TestDot(t *testing.T) {
	a := Normalize([]float32{1, 0})
	b := Normalize([]float32{1, 1})
	assert.InDelta(t, 1/math.Sqrt2, float64(Dot(a, b)), 1e-6)
}
