package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/harrygamon/Socials/internal/config"
	"github.com/redis/go-redis/v9"
)

// CountTTL bounds how long a cached like count is trusted before the DB
// recount becomes the source again.
const CountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
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

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForPostLikeCount generates the Redis key for a post's like count.
func (c *RedisCache) KeyForPostLikeCount(postID uint64) string {
	return fmt.Sprintf("posts:likes:%d", postID)
}

// SetPostLikeCount stores a freshly recounted like total. TTL is always
// refreshed on write.
func (c *RedisCache) SetPostLikeCount(ctx context.Context, postID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForPostLikeCount(postID), count, CountTTL).Err()
}

// GetPostLikeCount reads a cached like count. Returns ok=false on a miss
// so callers fall back to a DB recount.
func (c *RedisCache) GetPostLikeCount(ctx context.Context, postID uint64) (int64, bool, error) {
	key := c.KeyForPostLikeCount(postID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, CountTTL).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}
