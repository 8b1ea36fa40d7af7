package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter bounds how often a keyed action may run inside a window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window counter backed by Redis. When Redis is
// unreachable the limiter fails open: throttling is a courtesy cap, not a
// correctness requirement, and OTP delivery must not depend on the cache.
type RedisLimiter struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	limit  int
	window time.Duration
}

// NewRedisLimiter constructs a limiter allowing limit actions per window.
func NewRedisLimiter(client *redis.Client, logger *zap.Logger, prefix string, limit int, window time.Duration) *RedisLimiter {
	if limit <= 0 {
		limit = 3
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisLimiter{client: client, logger: logger, prefix: prefix, limit: limit, window: window}
}

// Allow increments the window counter for key and reports whether the action
// may proceed.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.client == nil {
		return true, nil
	}

	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		return true, nil
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.logger.Warn("rate limiter expire failed", zap.Error(err))
		}
	}
	return count <= int64(l.limit), nil
}
