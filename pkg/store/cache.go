package store

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often the janitor sweeps the cache. Entries
// written by this store never expire, so the sweep finds nothing to drop.
const DefaultCleanupInterval = 30 * time.Minute

// Cache is a process-local store on go-cache. Entries live until the process
// exits or Flush is called; they never expire, since an expired user list
// would let registered emails register again.
type Cache struct {
	cache *gocache.Cache
}

var _ Store = (*Cache)(nil)

// NewCache returns an empty cache store.
func NewCache() *Cache {
	return &Cache{
		cache: gocache.New(gocache.NoExpiration, DefaultCleanupInterval),
	}
}

// Get implements Store.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	value, found := c.cache.Get(key)
	if !found {
		return "", false, nil
	}
	s, ok := value.(string)
	if !ok {
		return "", false, nil
	}
	return s, true, nil
}

// Set implements Store.
func (c *Cache) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.cache.Set(key, value, gocache.NoExpiration)
	return nil
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.cache.Flush()
}
