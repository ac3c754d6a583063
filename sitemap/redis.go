package sitemap

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRedisKey is the key the rendered sitemap is stored under.
const DefaultRedisKey = "lodge:sitemap.xml"

// RedisCache shares the rendered sitemap between instances through Redis.
// Redis errors are logged and treated as cache misses.
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisCache connects to redisURL and verifies the connection.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration, log *zap.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCache{client: client, key: DefaultRedisKey, ttl: ttl, log: log}, nil
}

// Get returns the cached document.
func (c *RedisCache) Get(ctx context.Context) ([]byte, bool) {
	b, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("sitemap cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return b, true
}

// Set stores the document with the cache TTL.
func (c *RedisCache) Set(ctx context.Context, doc []byte) {
	if err := c.client.Set(ctx, c.key, doc, c.ttl).Err(); err != nil {
		c.log.Warn("sitemap cache write failed", zap.Error(err))
	}
}

// Invalidate deletes the cached document.
func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		c.log.Warn("sitemap cache invalidate failed", zap.Error(err))
	}
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
