// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"carstock_backend/internal/feature/carmatch/domain/entity"
	"carstock_backend/internal/feature/carmatch/usecase"
)

// DefaultTTL is used when a non-positive ttl is given.
const DefaultTTL = 5 * time.Minute

// CachingInventoryRepository decorates an InventoryRepository with Redis caching.
// Records round-trip through JSON, so cached values come back with JSON types
// (numbers as float64, ObjectIDs as hex strings); the HTTP response is identical.
type CachingInventoryRepository struct {
	inner     usecase.InventoryRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.InventoryRepository = (*CachingInventoryRepository)(nil)

// NewCachingInventoryRepository decorates an InventoryRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "inventory".
func NewCachingInventoryRepository(rdb *redis.Client, ttl time.Duration, inner usecase.InventoryRepository, namespace string) *CachingInventoryRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "inventory"
	}
	return &CachingInventoryRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindByBodyStyle retrieves records, checking cache first then falling back to the store.
func (c *CachingInventoryRepository) FindByBodyStyle(ctx context.Context, bodyStyle string) ([]entity.InventoryRecord, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByBodyStyle(ctx, bodyStyle)
	}

	key := c.cacheKey(bodyStyle)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.InventoryRecord
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	} else if err != nil && err != redis.Nil {
		slog.Warn("キャッシュの取得に失敗", "key", key, "error", err)
	}

	// 2) Fallback to the store
	out, err := c.inner.FindByBodyStyle(ctx, bodyStyle)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates a cache key for a body style.
func (c *CachingInventoryRepository) cacheKey(bodyStyle string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(bodyStyle))
}

// safe escapes a body style for use in a Redis key.
// The encoding is injective, so distinct body styles never share a key.
func safe(s string) string {
	return url.QueryEscape(s)
}
