package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/pkg/logger"
)

// DefaultAnalyticsTTL applies when no positive TTL is configured.
const DefaultAnalyticsTTL = time.Minute

const (
	keyPrefix         = "inventory:analytics:"
	statsKey          = keyPrefix + "stats"
	categoryDistKey   = keyPrefix + "category-distribution"
	invalidatePattern = keyPrefix + "*"
	generationKey     = "inventory:analytics-generation"
)

// errStaleGeneration aborts a write computed before the latest Invalidate.
var errStaleGeneration = errors.New("analytics cache generation moved")

// RedisAnalyticsCache stores analytics responses in Redis with a TTL
type RedisAnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAnalyticsCache creates a Redis backed analytics cache
func NewRedisAnalyticsCache(client *redis.Client, ttl time.Duration) *RedisAnalyticsCache {
	if ttl <= 0 {
		ttl = DefaultAnalyticsTTL
	}
	return &RedisAnalyticsCache{client: client, ttl: ttl}
}

// Generation returns the current invalidation counter, or -1 when Redis
// cannot be read so that the following write is skipped.
func (c *RedisAnalyticsCache) Generation(ctx context.Context) int64 {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Cache generation read failed")
		return -1
	}
	return gen
}

func (c *RedisAnalyticsCache) GetStats(ctx context.Context) (*domain.InventoryStats, bool) {
	var stats domain.InventoryStats
	if !c.get(ctx, statsKey, &stats) {
		return nil, false
	}
	return &stats, true
}

func (c *RedisAnalyticsCache) SetStats(ctx context.Context, generation int64, stats *domain.InventoryStats) {
	c.set(ctx, generation, statsKey, stats)
}

func (c *RedisAnalyticsCache) GetCategoryDistribution(ctx context.Context) ([]domain.CategoryCount, bool) {
	var dist []domain.CategoryCount
	if !c.get(ctx, categoryDistKey, &dist) {
		return nil, false
	}
	return dist, true
}

func (c *RedisAnalyticsCache) SetCategoryDistribution(ctx context.Context, generation int64, dist []domain.CategoryCount) {
	c.set(ctx, generation, categoryDistKey, dist)
}

// Invalidate bumps the generation and drops every cached analytics key
func (c *RedisAnalyticsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return err
	}

	iter := c.client.Scan(ctx, 0, invalidatePattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return err
	}

	logger.Debug(ctx).
		Int("count", len(keys)).
		Str("pattern", invalidatePattern).
		Msg("Analytics cache invalidated")
	return nil
}

func (c *RedisAnalyticsCache) get(ctx context.Context, key string, dst interface{}) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Discarding undecodable cache entry")
		return false
	}

	logger.Debug(ctx).Str("cache_key", key).Msg("Cache hit")
	return true
}

func (c *RedisAnalyticsCache) set(ctx context.Context, generation int64, key string, value interface{}) {
	if generation < 0 {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to encode cache entry")
		return
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		logger.Debug(ctx).Str("cache_key", key).Msg("Skipping stale cache entry")
	default:
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to cache response")
	}
}

// Noop is used when Redis is not configured
type Noop struct{}

func (Noop) Generation(context.Context) int64                                       { return 0 }
func (Noop) GetStats(context.Context) (*domain.InventoryStats, bool)                { return nil, false }
func (Noop) SetStats(context.Context, int64, *domain.InventoryStats)                {}
func (Noop) GetCategoryDistribution(context.Context) ([]domain.CategoryCount, bool) { return nil, false }
func (Noop) SetCategoryDistribution(context.Context, int64, []domain.CategoryCount) {}
func (Noop) Invalidate(context.Context) error                                       { return nil }
