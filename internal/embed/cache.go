// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Cache is the two-tier embedding cache: a bounded in-memory LRU tier backed
// by an optional persistent sqlite tier. The persistent tier is read-through
// and best-effort — any failure there degrades to a miss, never to an error
// that aborts embedding. Both tiers are safe for concurrent use.
type Cache struct {
	mem   *lru.Cache[string, types.Embedding]
	store *Store
}

// NewCache builds the cache per cfg. A non-empty cfg.Path enables the
// persistent tier; if that tier cannot be opened the cache still works with
// the memory tier alone.
func NewCache(cfg types.CacheConfig) (*Cache, error) {
	entries := cfg.MemoryEntries
	if entries <= 0 {
		entries = 10000
	}

	mem, err := lru.New[string, types.Embedding](entries)
	if err != nil {
		return nil, fmt.Errorf("creating embedding LRU: %w", err)
	}

	c := &Cache{mem: mem}

	if cfg.Path != "" {
		store, err := OpenStore(cfg.Path, cfg.TTL)
		if err == nil {
			c.store = store
		}
		// Open failure leaves c.store nil: every persistent lookup misses.
	}

	return c, nil
}

// Get looks up key in the memory tier, then the persistent tier. A persistent
// hit is promoted into the memory tier.
func (c *Cache) Get(key string) (types.Embedding, bool) {
	if emb, ok := c.mem.Get(key); ok {
		return emb, true
	}
	if c.store != nil {
		if emb, ok := c.store.Get(key); ok {
			c.mem.Add(key, emb)
			return emb, true
		}
	}
	return types.Embedding{}, false
}

// Put writes key to both tiers. Persistent-tier write failures are swallowed:
// the entry simply will not survive a restart.
func (c *Cache) Put(key string, emb types.Embedding) {
	c.mem.Add(key, emb)
	if c.store != nil {
		c.store.Put(key, emb)
	}
}

// Len returns the memory-tier entry count.
func (c *Cache) Len() int {
	return c.mem.Len()
}

// Close releases the persistent tier, if any.
func (c *Cache) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
