// Package cache provides the freshness-bounded memoization of backend
// entity snapshots.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hesabkit/hesabchat/internal/domain"
	"github.com/hesabkit/hesabchat/internal/ports"
)

// DefaultTTL bounds how long an entity snapshot is reused before the next
// lookup refreshes it.
const DefaultTTL = 90 * time.Second

// EntityCache memoizes the gateway's entity list. A concurrent reader may
// observe a stale-but-valid snapshot; there is no invalidation beyond
// expiry.
type EntityCache struct {
	fetch func(context.Context) ([]domain.Entity, error)
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	entities  []domain.Entity
	fetchedAt time.Time
}

// NewEntityCache wraps a fetch function with a TTL. A non-positive ttl
// falls back to DefaultTTL.
func NewEntityCache(fetch func(context.Context) ([]domain.Entity, error), ttl time.Duration) *EntityCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &EntityCache{fetch: fetch, ttl: ttl, now: time.Now}
}

// Entities returns the cached snapshot while fresh, refreshing it from the
// backend once it goes stale. A failed refresh surfaces the error; the
// stale snapshot is not served in its place.
func (c *EntityCache) Entities(ctx context.Context) ([]domain.Entity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entities != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.entities, nil
	}
	entities, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if entities == nil {
		entities = []domain.Entity{}
	}
	c.entities = entities
	c.fetchedAt = c.now()
	return c.entities, nil
}

var _ ports.EntitySource = (*EntityCache)(nil)
