package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// DefaultKeyPrefix is prepended to the category id to form the cache key
const DefaultKeyPrefix = "category_list_"

// RedisDescendantCache shares category descendant lists between replicas.
// Cache failures are logged and treated as misses; the database stays the source of truth.
type RedisDescendantCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisDescendantCache wraps an existing client
func NewRedisDescendantCache(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisDescendantCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDescendantCache{
		client:    client,
		keyPrefix: DefaultKeyPrefix,
		ttl:       ttl,
		logger:    logger,
	}
}

func (c *RedisDescendantCache) key(id uuid.UUID) string {
	return c.keyPrefix + id.String()
}

// Get reads and decodes the cached list
func (c *RedisDescendantCache) Get(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, bool) {
	raw, err := c.client.Get(ctx, c.key(categoryID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("category cache read failed", zap.Stringer("category_id", categoryID), zap.Error(err))
		return nil, false
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		c.logger.Warn("category cache entry is corrupt", zap.Stringer("category_id", categoryID), zap.Error(err))
		return nil, false
	}
	return ids, true
}

// Set writes the list with the configured expiry
func (c *RedisDescendantCache) Set(ctx context.Context, categoryID uuid.UUID, ids []uuid.UUID) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(categoryID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("category cache write failed", zap.Stringer("category_id", categoryID), zap.Error(err))
	}
}

// Invalidate deletes the given keys
func (c *RedisDescendantCache) Invalidate(ctx context.Context, categoryIDs ...uuid.UUID) {
	if len(categoryIDs) == 0 {
		return
	}
	keys := make([]string, len(categoryIDs))
	for i, id := range categoryIDs {
		keys[i] = c.key(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("category cache invalidation failed", zap.Int("keys", len(keys)), zap.Error(err))
	}
}

// InvalidateAll scans for every key under the prefix and deletes it
func (c *RedisDescendantCache) InvalidateAll(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("category cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("category cache flush failed", zap.Int("keys", len(keys)), zap.Error(err))
	}
}

var _ catalog.DescendantCache = (*RedisDescendantCache)(nil)
