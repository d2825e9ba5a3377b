// Package cache provides the in-memory TTL cache for raw forecast
// responses, keyed by location. It owns the single-flight guarantee: at
// most one provider call is in flight per key, shared by concurrent
// callers.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/metrics"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/models"
)

// DefaultTTL keeps entries fresh for 15 minutes.
const DefaultTTL = 15 * time.Minute

// FetchFunc produces a fresh forecast on cache miss.
type FetchFunc func(ctx context.Context) (*models.RawForecast, error)

type entry struct {
	raw       *models.RawForecast
	fetchedAt time.Time
}

type Cache struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry
}

// New creates a cache. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// GetOrFetch returns the cached forecast for key while its age is below
// the TTL, otherwise runs fetch exactly once (concurrent callers for the
// same key share the in-flight call) and stores the result with the
// current timestamp. Expired entries are never served; a failed fetch
// caches nothing. hit reports whether the value came from the cache.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (raw *models.RawForecast, hit bool, err error) {
	if raw, ok := c.lookup(key); ok {
		metrics.CacheHitsTotal.WithLabelValues(key).Inc()
		return raw, true, nil
	}
	metrics.CacheMissesTotal.WithLabelValues(key).Inc()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A caller that queued behind the flight may find the entry
		// already refreshed.
		if raw, ok := c.lookup(key); ok {
			return raw, nil
		}
		raw, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry{raw: raw, fetchedAt: c.now()}
		c.mu.Unlock()
		return raw, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*models.RawForecast), false, nil
}

func (c *Cache) lookup(key string) (*models.RawForecast, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.raw, true
}

// FetchedAt reports when the entry for key was last stored.
func (c *Cache) FetchedAt(key string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e.fetchedAt, ok
}
