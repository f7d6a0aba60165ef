package cache

import (
	"sync"
	"time"

	"github.com/marketlens/backend/internal/domain"
)

// cacheItem is a single cached batch with its expiration.
type cacheItem struct {
	batch      []domain.RawRecord
	expiration time.Time
}

// BatchCache is a thread-safe in-memory cache of fetched raw batches keyed by the
// search parameters that produced them. It keeps repeated dashboard refreshes from
// hammering the upstream marketplace API; the analysis pipeline itself never reads it.
type BatchCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewBatchCache creates the cache and starts its expiry sweeper.
func NewBatchCache() *BatchCache {
	cache := &BatchCache{
		data: make(map[string]cacheItem),
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached batch, or ErrCacheMiss if absent or expired.
func (c *BatchCache) Get(key string) ([]domain.RawRecord, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}
	if time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}

	return item.batch, nil
}

// Set stores a batch with the given TTL.
func (c *BatchCache) Set(key string, batch []domain.RawRecord, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		batch:      batch,
		expiration: time.Now().Add(ttl),
	}
}

// Delete removes a cached batch.
func (c *BatchCache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
}

// Size returns the current number of cached batches.
func (c *BatchCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// cleanupExpired removes expired entries periodically.
func (c *BatchCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
