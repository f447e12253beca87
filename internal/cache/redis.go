package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/sparkmatch/internal/config"
)

// StatField names one per-user session counter. The engine bumps these as
// side effects; reads power the stats panel.
type StatField string

const (
	StatViewed         StatField = "viewed"
	StatLiked          StatField = "liked"
	StatSkipped        StatField = "skipped"
	StatProfileUpdates StatField = "profile_updates"
)

// RedisCache wraps the Redis client used for session stats counters and the
// liked-count cache. Cache failures are advisory: callers log and move on.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes the Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// KeyForLikedCount generates the cache key for a viewer's liked count.
func (c *RedisCache) KeyForLikedCount(viewerID uint64) string {
	return fmt.Sprintf("likes:count:%d", viewerID)
}

// GetLikedCount reads the cached liked count. A miss returns ok=false and
// refreshing the TTL on a hit keeps active sessions warm.
func (c *RedisCache) GetLikedCount(ctx context.Context, viewerID uint64) (int64, bool, error) {
	key := c.KeyForLikedCount(viewerID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // unparseable cache entry, treat as miss
	}
	_ = c.Client.Expire(ctx, key, time.Hour).Err()
	return n, true, nil
}

// SetLikedCount stores the liked count with a 1h TTL.
func (c *RedisCache) SetLikedCount(ctx context.Context, viewerID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForLikedCount(viewerID), count, time.Hour).Err()
}

// InvalidateLikedCount drops the cached liked count, forcing the next read
// back to the ledger.
func (c *RedisCache) InvalidateLikedCount(ctx context.Context, viewerID uint64) error {
	return c.Client.Del(ctx, c.KeyForLikedCount(viewerID)).Err()
}

// KeyForStat generates the counter key for one stat field of a user.
func (c *RedisCache) KeyForStat(userID uint64, field StatField) string {
	return fmt.Sprintf("stats:%s:%d", field, userID)
}

// IncrStat bumps a session counter.
func (c *RedisCache) IncrStat(ctx context.Context, userID uint64, field StatField) error {
	return c.Client.Incr(ctx, c.KeyForStat(userID, field)).Err()
}

// GetStat reads a session counter; absent counters read as zero.
func (c *RedisCache) GetStat(ctx context.Context, userID uint64, field StatField) (int64, error) {
	val, err := c.Client.Get(ctx, c.KeyForStat(userID, field)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// ResetStats clears every counter for the user. Used at logout, since stats
// describe one session.
func (c *RedisCache) ResetStats(ctx context.Context, userID uint64) error {
	fields := []StatField{StatViewed, StatLiked, StatSkipped, StatProfileUpdates}
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, c.KeyForStat(userID, f))
	}
	return c.Client.Del(ctx, keys...).Err()
}
