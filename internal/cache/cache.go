// Package cache memoizes per-pair analysis results so repeated uploads of
// the same resume against the same posting skip the embedding pipeline.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// keyPrefixLen bounds how much of each text feeds the fingerprint. Long
// documents rarely differ only after this point.
const keyPrefixLen = 500

// Key fingerprints a resume/job pair.
func Key(resumeText, jobText string) string {
	h := sha256.New()
	h.Write([]byte(prefix(resumeText)))
	h.Write([]byte{0})
	h.Write([]byte(prefix(jobText)))
	return hex.EncodeToString(h.Sum(nil))
}

func prefix(s string) string {
	if len(s) > keyPrefixLen {
		return s[:keyPrefixLen]
	}
	return s
}

// Cache is a concurrency-safe map keyed by fingerprint. It grows without
// bound; entries live for the process lifetime.
type Cache[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

// New creates an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{m: make(map[string]V)}
}

// Get returns the cached value for key, if present.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

// Put stores value under key, replacing any previous entry.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
