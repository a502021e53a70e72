package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atom-shop/identity-service/internal/metrics"
)

func setupCache(t *testing.T, ttl time.Duration) (*PermissionCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewPermissionCache(client, ttl), mr
}

func TestPermissionCache_SetGet(t *testing.T) {
	cache, _ := setupCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "r1", []string{"READ_ANY_ROLE", "DELETE_ANY_ROLE"}))

	names, ok, err := cache.Get(ctx, "r1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"READ_ANY_ROLE", "DELETE_ANY_ROLE"}, names)
}

func TestPermissionCache_EmptySetIsAHit(t *testing.T) {
	cache, _ := setupCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "r1", nil))
	names, ok, err := cache.Get(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, names)
}

func TestPermissionCache_Miss(t *testing.T) {
	cache, _ := setupCache(t, time.Minute)

	_, ok, err := cache.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPermissionCache_InvalidateAndExpiry(t *testing.T) {
	cache, mr := setupCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "r1", []string{"A_PERM"}))
	require.NoError(t, cache.Set(ctx, "r2", []string{"B_PERM"}))
	require.NoError(t, cache.Invalidate(ctx, "r1"))

	_, ok, err := cache.Get(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "r2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPermissionCache_RecordsLookups(t *testing.T) {
	cache, _ := setupCache(t, time.Minute)
	ctx := context.Background()
	hits := metrics.PermissionCacheLookupsTotal.WithLabelValues("hit")
	misses := metrics.PermissionCacheLookupsTotal.WithLabelValues("miss")
	hitsBefore, missesBefore := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	_, _, err := cache.Get(ctx, "r9")
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "r9", []string{"READ_ANY_ROLE"}))
	_, _, err = cache.Get(ctx, "r9")
	require.NoError(t, err)

	assert.Equal(t, missesBefore+1, testutil.ToFloat64(misses))
	assert.Equal(t, hitsBefore+1, testutil.ToFloat64(hits))
}
