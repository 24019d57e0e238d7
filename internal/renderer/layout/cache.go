package layout

import (
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
)

// LineCache caches line layouts with LRU eviction. Entries are validated
// against a hash of the line text, so edits never serve stale layouts.
type LineCache struct {
	mu      sync.Mutex
	entries map[int]*cacheEntry
	engine  *LayoutEngine
	maxSize int
	tick    uint64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	layout     *LineLayout
	lineHash   uint64
	lastAccess uint64
}

// NewLineCache creates a line cache. A maxSize of 0 disables eviction.
func NewLineCache(engine *LayoutEngine, maxSize int) *LineCache {
	if maxSize < 0 {
		maxSize = 0
	}
	return &LineCache{
		entries: make(map[int]*cacheEntry),
		engine:  engine,
		maxSize: maxSize,
	}
}

// Get returns the layout for line, computing it if the cached entry is
// missing or was built from different text.
func (c *LineCache) Get(line int, text string) *LineLayout {
	hash := hashLine(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	if e, ok := c.entries[line]; ok && e.lineHash == hash {
		e.lastAccess = c.tick
		c.hits.Add(1)
		return e.layout
	}

	c.misses.Add(1)
	layout := c.engine.Layout(text, line)
	c.entries[line] = &cacheEntry{
		layout:     layout,
		lineHash:   hash,
		lastAccess: c.tick,
	}
	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		c.evict()
	}
	return layout
}

// Invalidate drops the cached layout for line.
func (c *LineCache) Invalidate(line int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, line)
}

// InvalidateAll clears the cache.
func (c *LineCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]*cacheEntry)
}

// evict removes the least recently used entries until under maxSize.
// Must be called with the lock held.
func (c *LineCache) evict() {
	type lineTick struct {
		line int
		tick uint64
	}
	order := make([]lineTick, 0, len(c.entries))
	for line, e := range c.entries {
		order = append(order, lineTick{line, e.lastAccess})
	}
	sort.Slice(order, func(i, j int) bool {
		return order[i].tick < order[j].tick
	})

	toRemove := len(order) - c.maxSize
	for i := 0; i < toRemove; i++ {
		delete(c.entries, order[i].line)
	}
	if toRemove > 0 {
		c.evictions.Add(uint64(toRemove))
	}
}

// Size returns the number of cached entries.
func (c *LineCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Size      int     // current number of entries
	MaxSize   int     // maximum entries allowed
	Hits      uint64  // cache hits
	Misses    uint64  // cache misses
	Evictions uint64  // evicted entries
	HitRate   float64 // 0.0 - 1.0
}

// Stats returns cache statistics.
func (c *LineCache) Stats() CacheStats {
	size := c.Size()
	hits := c.hits.Load()
	misses := c.misses.Load()

	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return CacheStats{
		Size:      size,
		MaxSize:   c.maxSize,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   rate,
	}
}

// Engine returns the layout engine used by this cache.
func (c *LineCache) Engine() *LayoutEngine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine
}

// SetEngine replaces the layout engine and clears the cache.
func (c *LineCache) SetEngine(engine *LayoutEngine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = engine
	c.entries = make(map[int]*cacheEntry)
}

// hashLine computes an FNV-1a hash of the line content.
func hashLine(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
