package weatherapi

import (
	"context"
	"strings"
	"sync"

	"github.com/cloudslate/weatherdeck/internal/domain"
	"github.com/cloudslate/weatherdeck/internal/observability"
)

// CachedClient wraps a Client with an in-memory LRU cache over city-search
// results. Autocomplete fires on nearly every keystroke and identical
// prefixes repeat constantly, so hits here save most of the search quota.
// Weather fetches are never cached; the controller always wants fresh data.
type CachedClient struct {
	*Client
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedClient creates a cache decorator around a backend client.
func NewCachedClient(inner *Client, maxEntries int) *CachedClient {
	return &CachedClient{
		Client:  inner,
		cache:   newLRUCache(maxEntries),
		metrics: inner.metrics,
	}
}

// SearchCities serves repeated queries from the cache. Keys are case-folded;
// only non-empty result lists are cached so transient backend failures and
// unknown prefixes can be retried.
func (c *CachedClient) SearchCities(ctx context.Context, query string) []domain.CityMatch {
	q := trimmedQuery(query)
	if q == "" {
		return nil
	}

	key := strings.ToLower(q)
	if matches, ok := c.cache.get(key); ok {
		c.metrics.SearchCache.WithLabelValues("hit").Inc()
		return matches
	}
	c.metrics.SearchCache.WithLabelValues("miss").Inc()

	matches := c.Client.SearchCities(ctx, query)
	if len(matches) > 0 {
		c.cache.put(key, matches)
	}
	return matches
}

// lruCache is a simple thread-safe LRU cache for city-search results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []domain.CityMatch
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]domain.CityMatch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []domain.CityMatch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
