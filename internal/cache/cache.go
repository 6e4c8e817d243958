// Package cache holds read-through results of transaction-derived queries per
// church. Callers can only fetch through a loader or invalidate whole keys.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize bounds the number of cached results across all churches.
const DefaultSize = 4096

// Invalidator marks cached query results of a church as stale.
// Invalidations are idempotent and may be issued in any order.
type Invalidator interface {
	Invalidate(churchID string, keys ...domain.QueryKey)
}

// Suspender stops caching a church while nothing would invalidate its
// entries, and resumes it once something does again.
type Suspender interface {
	Suspend(churchID string)
	Resume(churchID string)
}

type generationKey struct {
	churchID string
	key      domain.QueryKey
}

type entry struct {
	generation uint64
	value      any
}

// QueryCache is a bounded LRU of query results. Each (church, key) pair has a
// generation counter; an entry is served only while its generation is current,
// so invalidating a key needs no scan over its variants.
type QueryCache struct {
	mu          sync.Mutex
	entries     *lru.Cache[string, entry]
	generations map[generationKey]uint64
	suspended   map[string]struct{}
}

// New creates a cache holding at most size results.
func New(size int) (*QueryCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create query cache: %w", err)
	}
	return &QueryCache{
		entries:     entries,
		generations: make(map[generationKey]uint64),
		suspended:   make(map[string]struct{}),
	}, nil
}

func entryKey(churchID string, key domain.QueryKey, variant string) string {
	return churchID + "|" + string(key) + "|" + variant
}

// Invalidate bumps the generation of every given key for the church.
func (c *QueryCache) Invalidate(churchID string, keys ...domain.QueryKey) {
	if churchID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		c.generations[generationKey{churchID: churchID, key: k}]++
	}
}

var (
	_ Invalidator = (*QueryCache)(nil)
	_ Suspender   = (*QueryCache)(nil)
)

// Suspend makes every Fetch of the church load from the store and keeps the
// results out of the cache until Resume.
func (c *QueryCache) Suspend(churchID string) {
	if churchID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suspended[churchID] = struct{}{}
}

// Resume lets the church be cached again. It does not invalidate: entries
// stored before Suspend become reachable again unless their keys were
// invalidated in between.
func (c *QueryCache) Resume(churchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.suspended, churchID)
}

// Suspended reports whether the church bypasses the cache.
func (c *QueryCache) Suspended(churchID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.suspended[churchID]
	return ok
}

func (c *QueryCache) lookup(churchID string, key domain.QueryKey, variant string) (any, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.generations[generationKey{churchID: churchID, key: key}]
	if _, off := c.suspended[churchID]; off {
		return nil, gen, false
	}
	e, ok := c.entries.Get(entryKey(churchID, key, variant))
	if !ok || e.generation != gen {
		return nil, gen, false
	}
	return e.value, gen, true
}

func (c *QueryCache) store(churchID string, key domain.QueryKey, variant string, gen uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// An invalidation that raced the load leaves the result stale already.
	if c.generations[generationKey{churchID: churchID, key: key}] != gen {
		return
	}
	if _, off := c.suspended[churchID]; off {
		return
	}
	c.entries.Add(entryKey(churchID, key, variant), entry{generation: gen, value: value})
}

// Fetch returns the cached result for (church, key, variant) or runs load and
// caches its result. Load errors are returned and never cached.
func Fetch[T any](ctx context.Context, c *QueryCache, churchID string, key domain.QueryKey, variant string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	v, gen, ok := c.lookup(churchID, key, variant)
	if ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.store(churchID, key, variant, gen, value)
	return value, nil
}

// Len reports the number of cached results, fresh or stale.
func (c *QueryCache) Len() int {
	return c.entries.Len()
}
