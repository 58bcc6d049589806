package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter backed by redis, one window per
// caller scope. State lives outside the process so every API replica
// shares the same budget.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewLimiter(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow increments the caller's counter for the current window and
// reports whether the request fits the budget. Errors fail open: a
// broken counter should not take the shop down.
func (l *Limiter) Allow(ctx context.Context, scope string) (bool, error) {
	key := l.key(scope, time.Now())
	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		_ = l.rdb.Expire(ctx, key, l.window).Err()
	}
	return n <= int64(l.limit), nil
}

func (l *Limiter) key(scope string, now time.Time) string {
	windowStart := now.Unix() / int64(l.window.Seconds())
	return fmt.Sprintf("rate:%s:%d", scope, windowStart)
}
