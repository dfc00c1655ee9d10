// Package cache provides the shared TTL cache for aggregated news results.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"news_server/internal/domain"
)

type entry struct {
	articles  []domain.Article
	expiresAt time.Time
}

// TTLCache stores article batches keyed by normalized preference key. A single
// TTL applies uniformly to every entry. Expiry is lazy on read; RunSweeper can
// additionally reclaim memory for keys that are never read again.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func New(ttl time.Duration) *TTLCache {
	return &TTLCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached batch for key, or false if the key is absent or
// expired. The returned slice is a copy: callers cannot corrupt the cached
// value through it.
func (c *TTLCache) Get(key string) ([]domain.Article, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return append([]domain.Article{}, e.articles...), true
}

// Set stores a copy of articles under key with the fixed TTL.
func (c *TTLCache) Set(key string, articles []domain.Article) {
	stored := append([]domain.Article{}, articles...)

	c.mu.Lock()
	c.entries[key] = entry{
		articles:  stored,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Len reports the number of entries currently held, expired or not.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TTLCache) sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// RunSweeper periodically evicts expired entries until the context ends. Not
// required for correctness, only for memory hygiene on keys that stop being
// requested.
func (c *TTLCache) RunSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("cache sweeper stopped")
			return
		case <-ticker.C:
			if removed := c.sweep(); removed > 0 {
				logger.Debug("swept expired cache entries", "removed", removed)
			}
		}
	}
}
