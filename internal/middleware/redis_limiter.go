package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mroshb/roommatch/pkg/logger"
)

// RedisLimiter counts requests with INCR + EXPIRE so the limit holds across
// every API instance sharing the Redis server. Redis failures fail open.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		logger.Warn("Rate limit INCR failed, failing open", "key", redisKey, "error", err)
		return true, err
	}

	// The first hit opens the window
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			logger.Warn("Rate limit EXPIRE failed, failing open", "key", redisKey, "error", err)
			// a key without TTL would block the caller forever
			l.client.Del(ctx, redisKey)
			return true, err
		}
	}

	return int(count) <= l.limit, nil
}

// Remaining returns how many requests key has left in the current window
func (l *RedisLimiter) Remaining(ctx context.Context, key string) (int, error) {
	count, err := l.client.Get(ctx, l.prefix+key).Int()
	if err == redis.Nil {
		return l.limit, nil
	}
	if err != nil {
		return l.limit, err
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
