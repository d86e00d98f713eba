package reports

import (
	"sync"
	"time"

	"github.com/kunjshukla/ain/internal/orchestrator"
)

// summaryCache keeps recent summaries in memory with a TTL to avoid database
// reads for sessions still in progress.
type summaryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	summary   orchestrator.Summary
	expiresAt time.Time
}

func newSummaryCache(ttl time.Duration) *summaryCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	c := &summaryCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
	go c.cleanupLoop()
	return c
}

func (c *summaryCache) set(sessionID string, summary orchestrator.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[sessionID] = &cacheEntry{
		summary:   summary,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *summaryCache) get(sessionID string) (orchestrator.Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[sessionID]
	if !ok || time.Now().After(entry.expiresAt) {
		return orchestrator.Summary{}, false
	}
	return entry.summary, true
}

func (c *summaryCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *summaryCache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for id, entry := range c.entries {
			if now.After(entry.expiresAt) {
				delete(c.entries, id)
			}
		}
		c.mu.Unlock()
	}
}
