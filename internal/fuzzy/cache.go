package fuzzy

import (
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes results for a fixed snapshot of items. Reset must be called
// whenever the snapshot changes; results never depend on the cache.
type Cache[T any] struct {
	matcher *Matcher[T]

	mu    sync.RWMutex
	items []T
	lru   *lru.Cache[string, []Result[T]]
}

// NewCache wraps matcher with an LRU of up to size queries over items.
func NewCache[T any](matcher *Matcher[T], items []T, size int) (*Cache[T], error) {
	l, err := lru.New[string, []Result[T]](size)
	if err != nil {
		return nil, err
	}
	return &Cache[T]{matcher: matcher, items: items, lru: l}, nil
}

// Search returns cached results for query, computing them on a miss. The
// returned slice is a copy and may be modified by the caller.
func (c *Cache[T]) Search(query string) []Result[T] {
	key := strings.ToLower(strings.TrimSpace(query))

	c.mu.RLock()
	defer c.mu.RUnlock()

	if cached, ok := c.lru.Get(key); ok {
		return slices.Clone(cached)
	}
	results := c.matcher.Search(query, c.items)
	c.lru.Add(key, results)
	return slices.Clone(results)
}

// Reset swaps in a new snapshot and drops every cached query.
func (c *Cache[T]) Reset(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.lru.Purge()
}

// Len returns the number of cached queries.
func (c *Cache[T]) Len() int {
	return c.lru.Len()
}
