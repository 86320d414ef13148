package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every server instance
// pointing at the same Redis.
type RedisLimiter struct {
	client redis.UniversalClient
	now    func() time.Time
	prefix string
	rate   int
	window time.Duration
}

// NewRedisLimiter allows rate requests per window for each key.
func NewRedisLimiter(client redis.UniversalClient, prefix string, rate int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl"
	}
	if window < time.Millisecond {
		window = time.Second
	}
	return &RedisLimiter{
		client: client,
		now:    time.Now,
		prefix: prefix,
		rate:   rate,
		window: window,
	}
}

// Allow increments the counter of the current window. The key expires with
// its window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if key == "" {
		key = "unknown"
	}

	slot := l.now().UnixMilli() / l.window.Milliseconds()
	storeKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, storeKey)
	pipe.PExpire(ctx, storeKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}

	return count.Val() <= int64(l.rate), nil
}
