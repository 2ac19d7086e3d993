// Package cache memoizes assembly results by content hash so re-processing
// the same screenshot is a no-op.
package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

// ResultCache is an unbounded memoization layer over item assembly. Bounding
// retention is a wrapper's concern; this core only guarantees at-most-one
// concurrent assembly per key.
type ResultCache struct {
	items map[string]*model.StructuredItem
	group singleflight.Group
	mu    sync.RWMutex
}

// New creates an empty result cache.
func New() *ResultCache {
	return &ResultCache{
		items: make(map[string]*model.StructuredItem),
	}
}

// GetOrCompute returns the cached item for key, computing and storing it on
// first use. Concurrent callers for the same key wait on the first caller's
// in-flight computation instead of duplicating work. Failed computations are
// not cached.
func (c *ResultCache) GetOrCompute(key string, compute func() (*model.StructuredItem, error)) (*model.StructuredItem, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return item, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A caller that lost the race to Do may have already stored.
		c.mu.RLock()
		item, ok := c.items[key]
		c.mu.RUnlock()
		if ok {
			return item, nil
		}

		item, err := compute()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.items[key] = item
		c.mu.Unlock()
		return item, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*model.StructuredItem), nil
}

// Get returns the cached item for key without computing.
func (c *ResultCache) Get(key string) (*model.StructuredItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[key]
	return item, ok
}

// Len reports the number of cached items.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
