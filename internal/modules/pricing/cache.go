package pricing

import (
	"sync"
	"time"

	"github.com/stockpulse/stockpulse/internal/domain"
)

// QuoteCache is a bounded in-memory TTL cache for resolved quotes. It is
// owned by the service instance and injected at construction so tests can
// substitute a zero-TTL or inspectable cache.
type QuoteCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

type cacheEntry struct {
	quote    domain.PriceQuote
	storedAt time.Time
}

// NewQuoteCache creates a cache holding at most maxSize entries, each valid
// for ttl after storage.
func NewQuoteCache(ttl time.Duration, maxSize int) *QuoteCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &QuoteCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the cached quote for key if present and not expired.
// A hit revalidates age: stale entries are removed and reported as misses.
func (c *QuoteCache) Get(key string) (domain.PriceQuote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return domain.PriceQuote{}, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return domain.PriceQuote{}, false
	}
	return entry.quote, true
}

// Put stores a quote. When the cache is full, expired entries are evicted
// first; if none are expired the oldest entry goes.
func (c *QuoteCache) Put(key string, quote domain.PriceQuote) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictLocked()
	}
	c.entries[key] = cacheEntry{quote: quote, storedAt: c.now()}
}

// Invalidate removes a single key.
func (c *QuoteCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of cached entries, expired or not.
func (c *QuoteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked frees one slot. Caller holds c.mu.
func (c *QuoteCache) evictLocked() {
	now := c.now()
	var oldestKey string
	var oldestAt time.Time

	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) > c.ttl {
			delete(c.entries, key)
			return
		}
		if oldestKey == "" || entry.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
