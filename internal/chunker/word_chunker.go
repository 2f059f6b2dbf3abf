package chunker

import (
	"fmt"
	"strings"

	"resumatch/internal/domain"
)

// Default window parameters, in words. Sized so each embedded unit stays
// within the effective context of small sentence-embedding models.
const (
	DefaultWindowWords  = 150
	DefaultOverlapWords = 30
)

// WordChunker splits text into overlapping fixed-size word windows.
type WordChunker struct {
	windowWords  int
	overlapWords int
}

// NewWordChunker creates a word-window chunker. The overlap must be smaller
// than the window; otherwise the step would be non-positive and the chunking
// loop could not terminate.
func NewWordChunker(windowWords, overlapWords int) (*WordChunker, error) {
	if windowWords <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %d", domain.ErrConfiguration, windowWords)
	}
	if overlapWords < 0 || overlapWords >= windowWords {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, window %d)", domain.ErrConfiguration, overlapWords, windowWords)
	}
	return &WordChunker{windowWords: windowWords, overlapWords: overlapWords}, nil
}

// Chunk splits text on whitespace into sliding windows. A text of at most one
// window of words yields exactly one chunk; an empty or whitespace-only text
// yields none.
func (c *WordChunker) Chunk(text string) []string {
	words := strings.Fields(text)
	n := len(words)
	if n == 0 {
		return nil
	}
	var chunks []string
	i := 0
	for i < n {
		j := i + c.windowWords
		if j > n {
			j = n
		}
		chunks = append(chunks, strings.Join(words[i:j], " "))
		if j == n {
			break
		}
		i = j - c.overlapWords
	}
	return chunks
}
