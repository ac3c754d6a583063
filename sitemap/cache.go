package sitemap

import (
	"context"
	"sync"
	"time"
)

// Cache stores a rendered sitemap document.
type Cache interface {
	Get(ctx context.Context) ([]byte, bool)
	Set(ctx context.Context, doc []byte)
	Invalidate(ctx context.Context)
}

// MemoryCache is an in-process Cache with a TTL.
type MemoryCache struct {
	mu      sync.RWMutex
	doc     []byte
	fetched time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a MemoryCache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryCache) valid() bool {
	return c.doc != nil && c.now().Sub(c.fetched) < c.ttl
}

// Get returns the cached document if it has not expired.
func (c *MemoryCache) Get(context.Context) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid() {
		return nil, false
	}
	return c.doc, true
}

// Set replaces the cached document.
func (c *MemoryCache) Set(_ context.Context, doc []byte) {
	c.mu.Lock()
	c.doc = doc
	c.fetched = c.now()
	c.mu.Unlock()
}

// Invalidate clears the cache so the next read triggers a fresh render.
func (c *MemoryCache) Invalidate(context.Context) {
	c.mu.Lock()
	c.doc = nil
	c.mu.Unlock()
}
