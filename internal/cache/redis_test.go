package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/sparkmatch/internal/cache"
	"github.com/oggyb/sparkmatch/internal/config"
)

func setupCache(t *testing.T) *cache.RedisCache {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	return cache.NewRedisCache(cfg)
}

func TestLikedCountMissThenHit(t *testing.T) {
	ctx := context.Background()
	c := setupCache(t)

	_, ok, err := c.GetLikedCount(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetLikedCount(ctx, 1, 5))

	n, ok, err := c.GetLikedCount(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(5), n)

	require.NoError(t, c.InvalidateLikedCount(ctx, 1))
	_, ok, err = c.GetLikedCount(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatCounters(t *testing.T) {
	ctx := context.Background()
	c := setupCache(t)

	n, err := c.GetStat(ctx, 7, cache.StatLiked)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, c.IncrStat(ctx, 7, cache.StatLiked))
	require.NoError(t, c.IncrStat(ctx, 7, cache.StatLiked))
	require.NoError(t, c.IncrStat(ctx, 7, cache.StatViewed))

	n, err = c.GetStat(ctx, 7, cache.StatLiked)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, c.ResetStats(ctx, 7))
	n, err = c.GetStat(ctx, 7, cache.StatViewed)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
