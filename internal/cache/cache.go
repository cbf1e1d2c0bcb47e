// Package cache holds derived per-owner read models such as statistics.
//
// Entries are keyed by owner and generation. Invalidate bumps the owner's
// generation, which makes every older entry unreachable at once; ristretto
// evicts them by TTL or cost.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/gofrs/uuid/v5"
)

type Cache[V any] struct {
	name  string
	store *ristretto.Cache[string, V]
	ttl   time.Duration

	mu          sync.Mutex
	generations map[uuid.UUID]uint64
}

// New returns a cache whose entries live for ttl. A zero ttl disables caching
// and New returns nil, which every method accepts.
func New[V any](name string, ttl time.Duration, maxEntries int64) (*Cache[V], error) {
	if ttl <= 0 {
		return nil, nil
	}
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	store, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
		// Cost counts entries, not bytes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", name, err)
	}
	return &Cache[V]{
		name:        name,
		store:       store,
		ttl:         ttl,
		generations: make(map[uuid.UUID]uint64),
	}, nil
}

func (c *Cache[V]) generation(ownerID uuid.UUID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[ownerID]
}

func (c *Cache[V]) key(ownerID uuid.UUID, gen uint64, key string) string {
	return fmt.Sprintf("%s:%s:%d:%s", c.name, ownerID, gen, key)
}

// GetOrLoad returns the cached value or calls load and caches its result. The
// generation is read before load so a result computed from data that was
// invalidated meanwhile is stored under a stale key and never served.
func (c *Cache[V]) GetOrLoad(ownerID uuid.UUID, key string, load func() (V, error)) (V, bool, error) {
	if c == nil {
		v, err := load()
		return v, false, err
	}

	gen := c.generation(ownerID)
	fullKey := c.key(ownerID, gen, key)
	if v, ok := c.store.Get(fullKey); ok {
		return v, true, nil
	}

	v, err := load()
	if err != nil {
		return v, false, err
	}
	c.store.SetWithTTL(fullKey, v, 1, c.ttl)
	return v, false, nil
}

// Invalidate drops every entry of ownerID.
func (c *Cache[V]) Invalidate(ownerID uuid.UUID) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.generations[ownerID]++
	c.mu.Unlock()
}

// Wait blocks until pending writes are visible to Get.
func (c *Cache[V]) Wait() {
	if c == nil {
		return
	}
	c.store.Wait()
}

func (c *Cache[V]) Close() {
	if c == nil {
		return
	}
	c.store.Close()
}
