package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDescendantCache_GetSet(t *testing.T) {
	c := NewInMemoryDescendantCache(time.Hour)
	defer c.Close()
	ctx := context.Background()
	root := uuid.New()

	_, ok := c.Get(ctx, root)
	assert.False(t, ok)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	c.Set(ctx, root, ids)

	got, ok := c.Get(ctx, root)
	require.True(t, ok)
	assert.Equal(t, ids, got)

	t.Run("returns copies", func(t *testing.T) {
		got[0] = uuid.Nil
		again, _ := c.Get(ctx, root)
		assert.Equal(t, ids[0], again[0])
	})

	t.Run("caches empty lists", func(t *testing.T) {
		leaf := uuid.New()
		c.Set(ctx, leaf, nil)
		got, ok := c.Get(ctx, leaf)
		assert.True(t, ok)
		assert.Empty(t, got)
	})
}

func TestInMemoryDescendantCache_Expiry(t *testing.T) {
	c := NewInMemoryDescendantCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	id := uuid.New()
	c.Set(ctx, id, []uuid.UUID{uuid.New()})

	now = now.Add(59 * time.Second)
	_, ok := c.Get(ctx, id)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.Get(ctx, id)
	assert.False(t, ok)

	c.removeExpired()
	assert.Zero(t, c.Size())
}

func TestInMemoryDescendantCache_Invalidate(t *testing.T) {
	c := NewInMemoryDescendantCache(time.Hour)
	defer c.Close()
	ctx := context.Background()

	a, b, d := uuid.New(), uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{a, b, d} {
		c.Set(ctx, id, nil)
	}

	c.Invalidate(ctx, a, b)
	_, ok := c.Get(ctx, a)
	assert.False(t, ok)
	_, ok = c.Get(ctx, d)
	assert.True(t, ok)

	c.InvalidateAll(ctx)
	assert.Zero(t, c.Size())
}

func TestInMemoryDescendantCache_CloseIsIdempotent(t *testing.T) {
	c := NewInMemoryDescendantCache(time.Hour)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestCategoryInvalidationHandler(t *testing.T) {
	c := NewInMemoryDescendantCache(time.Hour)
	defer c.Close()
	ctx := context.Background()
	h := NewCategoryInvalidationHandler(c, nil)

	c.Set(ctx, uuid.New(), nil)
	require.NoError(t, h.Handle(ctx, shared.NewRecordSavedEvent("brands", uuid.New())))
	assert.Equal(t, 1, c.Size(), "other tables leave the cache alone")

	require.NoError(t, h.Handle(ctx, shared.NewStatusChangedEvent(CategoriesTable, uuid.New(), shared.StatusSuspended, true)))
	assert.Zero(t, c.Size())

	assert.ElementsMatch(t, []string{
		shared.EventTypeRecordSaved, shared.EventTypeRecordDeleted, shared.EventTypeStatusChanged,
	}, h.EventTypes())
}

func TestFactory_FallsBackWhenRedisDisabled(t *testing.T) {
	f := NewFactory(config.RedisConfig{}, config.CacheConfig{CategoryTTL: time.Minute})
	c, err := f.CreateDescendantCache()
	require.NoError(t, err)
	defer c.Close()
	assert.IsType(t, &InMemoryDescendantCache{}, c)
}

func TestFactory_UnreachableRedis(t *testing.T) {
	redisCfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	c, err := NewFactory(redisCfg, config.CacheConfig{CategoryTTL: time.Minute}).CreateDescendantCache()
	require.NoError(t, err)
	defer c.Close()
	assert.IsType(t, &InMemoryDescendantCache{}, c)

	_, err = NewFactory(redisCfg, config.CacheConfig{}, WithInMemoryFallback(false)).CreateDescendantCache()
	assert.Error(t, err)
}
