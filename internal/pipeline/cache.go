package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cache memoizes session results by the exact input bytes. It exists so a
// caller (the dashboard layer) can skip recomputation on unrelated UI
// interactions; the pipeline itself stays a pure function and never touches
// it. Invalidation is wholesale: any new upload means Reset.
type Cache struct {
	entries map[string]*Result
}

// NewCache builds an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Result)}
}

// Key hashes the raw upload bytes of a session, in input order.
func Key(uploads ...[]byte) string {
	h := sha256.New()
	for _, b := range uploads {
		h.Write(b)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the memoized result for a key, if any.
func (c *Cache) Get(key string) (*Result, bool) {
	r, ok := c.entries[key]
	return r, ok
}

// Put stores a result under a key.
func (c *Cache) Put(key string, r *Result) {
	c.entries[key] = r
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.entries = make(map[string]*Result)
}
