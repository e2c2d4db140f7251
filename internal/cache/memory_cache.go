package cache

import (
	"sync"
	"time"

	"github.com/epeers/markowitz/internal/models"
)

// MemoryCache holds resolved risk-free rates. Entries older than the TTL are
// not served as fresh but remain available as a stale fallback until
// invalidated.
type MemoryCache struct {
	rates map[models.RateType]rateEntry
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

type rateEntry struct {
	rate      models.RiskFreeRate
	fetchedAt time.Time
}

// NewMemoryCache creates a new in-memory rate cache
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		rates: make(map[models.RateType]rateEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// GetRate retrieves a cached rate if fresh
func (c *MemoryCache) GetRate(rateType models.RateType) (models.RiskFreeRate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.rates[rateType]
	if !exists {
		return models.RiskFreeRate{}, false
	}
	if c.now().Sub(entry.fetchedAt) > c.ttl {
		return models.RiskFreeRate{}, false
	}
	return entry.rate, true
}

// GetStaleRate retrieves a cached rate regardless of age, with the time it was fetched.
func (c *MemoryCache) GetStaleRate(rateType models.RateType) (models.RiskFreeRate, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.rates[rateType]
	if !exists {
		return models.RiskFreeRate{}, time.Time{}, false
	}
	return entry.rate, entry.fetchedAt, true
}

// SetRate caches a rate
func (c *MemoryCache) SetRate(rate models.RiskFreeRate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates[rate.Type] = rateEntry{
		rate:      rate,
		fetchedAt: c.now(),
	}
}

// InvalidateRate removes a rate from the cache
func (c *MemoryCache) InvalidateRate(rateType models.RateType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.rates, rateType)
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates = make(map[models.RateType]rateEntry)
}
