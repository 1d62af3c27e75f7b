// SPDX-License-Identifier: MIT

package algebraic

import "sync"

// DefaultSignCacheLimit is the number of entries a SignCache holds before it
// is flushed.
const DefaultSignCacheLimit = 1 << 16

// SignCache memoizes exact sign decisions keyed by Number.Hash (which folds
// in the field key and coordinates). It is an explicit object: attach it to
// fields with WithSignCache, share it between goroutines or keep one per
// task. A single mutex guards the map.
type SignCache struct {
	mu     sync.Mutex
	signs  map[[32]byte]int8
	limit  int
	hits   uint64
	misses uint64
}

// CacheStats is a snapshot of SignCache counters.
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// NewSignCache returns an empty cache holding at most limit entries
// (DefaultSignCacheLimit when limit ≤ 0). A full cache is flushed rather than
// evicted entry by entry.
func NewSignCache(limit int) *SignCache {
	if limit <= 0 {
		limit = DefaultSignCacheLimit
	}

	return &SignCache{signs: make(map[[32]byte]int8), limit: limit}
}

func (c *SignCache) lookup(key [32]byte) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.signs[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}

	return int(s), ok
}

func (c *SignCache) store(key [32]byte, sign int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.signs) >= c.limit {
		clear(c.signs)
	}
	c.signs[key] = int8(sign)
}

// Stats returns the current counters.
func (c *SignCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{Hits: c.hits, Misses: c.misses, Size: len(c.signs)}
}

// Reset drops all entries and counters.
func (c *SignCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.signs)
	c.hits, c.misses = 0, 0
}
