package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/rohmanhakim/serp-aggregator/internal/models"
)

type entry struct {
	key       string
	value     models.SearchResult
	createdAt time.Time
	ttl       time.Duration
}

func (e entry) isExpired(now time.Time) bool {
	if e.ttl <= 0 {
		return false
	}
	return now.Sub(e.createdAt) > e.ttl
}

// InMemoryCache is a process-local cache with per-entry TTL and LRU
// eviction once maxSize is reached. Access order is tracked with a
// doubly linked list so Get/Set/evict are all O(1).
type InMemoryCache struct {
	mu         sync.Mutex
	defaultTTL time.Duration
	maxSize    int
	entries    map[string]*list.Element
	order      *list.List
	stats      Stats
}

func NewInMemoryCache(defaultTTL time.Duration, maxSize int) *InMemoryCache {
	return &InMemoryCache{
		defaultTTL: defaultTTL,
		maxSize:    maxSize,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *InMemoryCache) Get(ctx context.Context, key string) (models.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return models.SearchResult{}, false
	}

	e := elem.Value.(entry)
	if e.isExpired(time.Now()) {
		c.removeElement(elem)
		c.stats.Misses++
		c.stats.Evictions++
		return models.SearchResult{}, false
	}

	c.order.MoveToFront(elem)
	c.stats.Hits++
	return e.value, true
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value models.SearchResult, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ttl := c.defaultTTL
	if ttlSeconds != 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}

	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value = entry{key: key, value: value, createdAt: time.Now(), ttl: ttl}
		c.stats.Sets++
		return nil
	}

	for c.maxSize > 0 && len(c.entries) >= c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
		c.stats.Evictions++
	}

	elem := c.order.PushFront(entry{key: key, value: value, createdAt: time.Now(), ttl: ttl})
	c.entries[key] = elem
	c.stats.Sets++
	c.stats.Size = len(c.entries)
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeElement(elem)
	return true
}

func (c *InMemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.stats.Size = 0
	return nil
}

func (c *InMemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Size = len(c.entries)
	return c.stats
}

// PurgeExpired removes every expired entry regardless of recency, rather
// than relying on lazy eviction at Get time. Returns the number removed.
func (c *InMemoryCache) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if elem.Value.(entry).isExpired(now) {
			c.removeElement(elem)
			c.stats.Evictions++
			removed++
		}
		elem = next
	}
	c.stats.Size = len(c.entries)
	return removed
}

// removeElement must be called with c.mu held.
func (c *InMemoryCache) removeElement(elem *list.Element) {
	e := elem.Value.(entry)
	delete(c.entries, e.key)
	c.order.Remove(elem)
	c.stats.Size = len(c.entries)
}
