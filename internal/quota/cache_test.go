package quota

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupCache(t *testing.T) *miniredis.Miniredis {
	mr := miniredis.RunT(t)
	SetCacheClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetCacheClient(nil) })
	return mr
}

func TestCacheRoundtrip(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	q := Quota{
		Name:         "Pro",
		BlobLimit:    100 * MiB,
		StorageQuota: 100 * GiB,
		MemberLimit:  10,
	}
	cacheSet(ctx, "ws1", q, time.Minute)

	got, ok := cacheGet(ctx, "ws1")
	assert.True(t, ok)
	assert.Equal(t, q, got)
}

func TestCacheMiss(t *testing.T) {
	setupCache(t)

	_, ok := cacheGet(context.Background(), "inconnu")
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	cacheSet(ctx, "ws1", BasePlan("pro"), time.Minute)
	Invalidate(ctx, "ws1")

	_, ok := cacheGet(ctx, "ws1")
	assert.False(t, ok)
}

func TestCacheCorruptEntryDeleted(t *testing.T) {
	mr := setupCache(t)
	ctx := context.Background()

	mr.Set(cacheKey("ws1"), "pas du json")

	_, ok := cacheGet(ctx, "ws1")
	assert.False(t, ok)
	assert.False(t, mr.Exists(cacheKey("ws1")))
}

func TestCacheExpiry(t *testing.T) {
	mr := setupCache(t)
	ctx := context.Background()

	cacheSet(ctx, "ws1", BasePlan("free"), time.Minute)
	mr.FastForward(2 * time.Minute)

	_, ok := cacheGet(ctx, "ws1")
	assert.False(t, ok)
}

func TestCacheDisabled(t *testing.T) {
	SetCacheClient(nil)
	ctx := context.Background()

	// Sans Redis tout est no-op, jamais d'erreur
	cacheSet(ctx, "ws1", BasePlan("free"), time.Minute)
	_, ok := cacheGet(ctx, "ws1")
	assert.False(t, ok)
	assert.NoError(t, cacheDel(ctx, "ws1"))
}
