package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
)

type descendantEntry struct {
	ids       []uuid.UUID
	expiresAt time.Time
}

// InMemoryDescendantCache keeps category descendant lists in process memory.
// Each replica has its own copy, so it only suits single instance deployments and tests.
type InMemoryDescendantCache struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]descendantEntry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryDescendantCache creates the cache and starts the expiry sweeper
func NewInMemoryDescendantCache(ttl time.Duration) *InMemoryDescendantCache {
	c := &InMemoryDescendantCache{
		entries:  make(map[uuid.UUID]descendantEntry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

// Get returns a copy of the cached ids
func (c *InMemoryDescendantCache) Get(_ context.Context, categoryID uuid.UUID) ([]uuid.UUID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[categoryID]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return slices.Clone(e.ids), true
}

// Set stores ids for categoryID
func (c *InMemoryDescendantCache) Set(_ context.Context, categoryID uuid.UUID, ids []uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[categoryID] = descendantEntry{ids: slices.Clone(ids), expiresAt: c.now().Add(c.ttl)}
}

// Invalidate drops the given categories
func (c *InMemoryDescendantCache) Invalidate(_ context.Context, categoryIDs ...uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range categoryIDs {
		delete(c.entries, id)
	}
}

// InvalidateAll empties the cache
func (c *InMemoryDescendantCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}

// Size returns the number of entries, expired ones included
func (c *InMemoryDescendantCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the sweeper. Safe to call more than once.
func (c *InMemoryDescendantCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryDescendantCache) cleanupLoop() {
	defer c.wg.Done()

	interval := c.ttl / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *InMemoryDescendantCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, id)
		}
	}
}

var _ catalog.DescendantCache = (*InMemoryDescendantCache)(nil)
