package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCachePutGet(t *testing.T) {
	c := New[int]()
	key := Key("resume text", "job text")

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Put(key, 42)
	v, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, c.Len())
}

func TestKeyDistinguishesPairs(t *testing.T) {
	assert.Equal(t, Key("a", "b"), Key("a", "b"))
	assert.NotEqual(t, Key("a", "b"), Key("b", "a"))
	assert.NotEqual(t, Key("a", "b"), Key("a", "c"))
}

func TestKeyIgnoresTailBeyondPrefix(t *testing.T) {
	base := strings.Repeat("x", 500)
	assert.Equal(t, Key(base+"one", "job"), Key(base+"two", "job"))
	assert.NotEqual(t, Key(base[:499]+"1", "job"), Key(base[:499]+"2", "job"))
}
