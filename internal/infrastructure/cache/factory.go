package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and pings it
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Factory builds the descendant cache from configuration
type Factory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory and the caches it builds
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the in-memory cache.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a Factory
func NewFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		ttl:                   cacheCfg.CategoryTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Cache is a DescendantCache that may hold resources
type Cache interface {
	catalog.DescendantCache
	Close() error
}

type redisCache struct {
	*RedisDescendantCache
	client *redis.Client
}

func (c redisCache) Close() error {
	return c.client.Close()
}

// CreateDescendantCache returns a Redis backed cache when Redis is enabled and reachable,
// and an in-memory one otherwise
func (f *Factory) CreateDescendantCache() (Cache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory category cache")
		return NewInMemoryDescendantCache(f.ttl), nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis category cache", zap.String("addr", f.redisConfig.Addr()))
		return redisCache{RedisDescendantCache: NewRedisDescendantCache(client, f.ttl, f.logger), client: client}, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for category cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory category cache. "+
		"Replicas will not share cached category trees.",
		zap.Error(err),
	)
	return NewInMemoryDescendantCache(f.ttl), nil
}
