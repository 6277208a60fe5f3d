package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	redisclient "github.com/foodsupplychain/procurement/pkg/redis"
)

// Cache keeps recently fetched product lists per caller.
type Cache interface {
	Get(ctx context.Context, userID string) ([]Product, bool, error)
	Set(ctx context.Context, userID string, products []Product, ttl time.Duration) error
}

type memoryEntry struct {
	products  []Product
	expiresAt time.Time
}

// MemoryCache is the in-process Cache used when redis is not configured.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache builds an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]memoryEntry{}, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, userID string) ([]Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[userID]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, userID)
		return nil, false, nil
	}
	return cloneProducts(entry.products), true, nil
}

func (c *MemoryCache) Set(_ context.Context, userID string, products []Product, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = memoryEntry{products: cloneProducts(products), expiresAt: c.now().Add(ttl)}
	return nil
}

type keyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey(scope string) string
}

// RedisCache stores product lists as JSON under the catalog namespace.
type RedisCache struct {
	store keyValueStore
}

// NewRedisCache wraps a redis client.
func NewRedisCache(store keyValueStore) *RedisCache {
	return &RedisCache{store: store}
}

func (c *RedisCache) Get(ctx context.Context, userID string) ([]Product, bool, error) {
	raw, err := c.store.Get(ctx, c.store.CatalogKey(userID))
	if err != nil {
		if redisclient.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read catalog cache: %w", err)
	}
	var products []Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, false, fmt.Errorf("decode catalog cache: %w", err)
	}
	return products, true, nil
}

func (c *RedisCache) Set(ctx context.Context, userID string, products []Product, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode catalog cache: %w", err)
	}
	return c.store.Set(ctx, c.store.CatalogKey(userID), payload, ttl)
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	copy(out, in)
	return out
}
