package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sortwise/sessiond/internal/shared/id"
)

// RedisRateLimiter keeps one sorted set per key and window, scored by attempt
// time, so every instance shares the same counts.
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	config RateLimitConfig
	now    func() time.Time
}

var _ RateLimiter = (*RedisRateLimiter)(nil)

func NewRedisRateLimiter(client *redis.Client, prefix string, config RateLimitConfig) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		prefix: prefix,
		config: config,
		now:    time.Now,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()

	allowed := true
	for _, w := range l.config.windows() {
		ok, err := l.checkWindow(ctx, key, w, now)
		if err != nil {
			return false, err
		}
		if !ok {
			allowed = false
		}
	}
	return allowed, nil
}

func (l *RedisRateLimiter) checkWindow(ctx context.Context, key string, w window, now time.Time) (bool, error) {
	redisKey := l.getKey(key, w.duration)
	windowStart := now.Add(-w.duration).UnixNano()

	member, err := id.NewULID(now)
	if err != nil {
		return false, fmt.Errorf("failed to generate attempt id: %w", err)
	}

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, redisKey, w.duration+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	return zcard.Val() < int64(w.limit), nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	keys := make([]string, 0, 3)
	for _, w := range l.config.windows() {
		keys = append(keys, l.getKey(key, w.duration))
	}
	if len(keys) == 0 {
		return nil
	}
	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset %s: %w", key, err)
	}
	return nil
}

func (l *RedisRateLimiter) getKey(identifier string, window time.Duration) string {
	return fmt.Sprintf("%sratelimit:%s:%s", l.prefix, identifier, window.String())
}
