package marketdata

import (
	"context"
	"sync"
	"time"

	"stocksafe/internal/interfaces"
	"stocksafe/internal/logger"
	"stocksafe/internal/types"
)

// ttlCache is a small time-bounded cache keyed by (operation, symbol).
// Entries are immutable once written and simply expire; there is no
// invalidation path.
type ttlCache struct {
	mu   sync.RWMutex
	data map[string]cacheEntry
}

type cacheEntry struct {
	value   any
	expires time.Time
}

func newTTLCache() *ttlCache {
	c := &ttlCache{data: make(map[string]cacheEntry)}
	go c.cleanupLoop()
	return c
}

func (c *ttlCache) get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (c *ttlCache) set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.data[key] = cacheEntry{value: value, expires: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *ttlCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *ttlCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.data {
		if now.After(e.expires) {
			delete(c.data, key)
		}
	}
}

// CacheTTLs holds the per-operation expirations.
type CacheTTLs struct {
	Price time.Duration
	Info  time.Duration
}

// Cached decorates a MarketData provider with a TTL cache.
type Cached struct {
	next  interfaces.MarketData
	cache *ttlCache
	ttls  CacheTTLs
}

var _ interfaces.MarketData = (*Cached)(nil)

func NewCached(next interfaces.MarketData, ttls CacheTTLs) *Cached {
	return &Cached{next: next, cache: newTTLCache(), ttls: ttls}
}

func (c *Cached) History(ctx context.Context, symbol, period string) (types.PriceSeries, error) {
	key := "history:" + symbol + ":" + period
	if v, ok := c.cache.get(key); ok {
		logger.Debug(ctx, "Price history cache hit", "symbol", symbol)
		return v.(types.PriceSeries), nil
	}

	series, err := c.next.History(ctx, symbol, period)
	if err != nil {
		return nil, err
	}
	if !series.Empty() {
		c.cache.set(key, series, c.ttls.Price)
	}
	return series, nil
}

func (c *Cached) Info(ctx context.Context, symbol string) (types.Fundamentals, error) {
	key := "info:" + symbol
	if v, ok := c.cache.get(key); ok {
		logger.Debug(ctx, "Fundamentals cache hit", "symbol", symbol)
		return v.(types.Fundamentals), nil
	}

	info, err := c.next.Info(ctx, symbol)
	if err != nil {
		return types.EmptyFundamentals(), err
	}
	c.cache.set(key, info, c.ttls.Info)
	return info, nil
}
