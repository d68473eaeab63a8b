package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultWindow = 15 * time.Minute

// RateLimiter counts requests per key in fixed windows backed by Redis.
// Key format: ratelimit:<scope>:<key>:<window_start_unix>
type RateLimiter struct {
	client *redis.Client
	scope  string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter creates a RateLimiter allowing limit hits per window.
func NewRateLimiter(client *redis.Client, scope string, limit int64, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = defaultWindow
	}
	return &RateLimiter{client: client, scope: scope, limit: limit, window: window, now: time.Now}
}

// Allow records one hit for key and reports whether it is within the limit,
// together with the time the current window resets.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Time, error) {
	start := l.now().Truncate(l.window)
	reset := start.Add(l.window)
	k := l.key(key, start)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, reset, fmt.Errorf("rate limit: %w", err)
	}

	return incr.Val() <= l.limit, reset, nil
}

// Limit returns the number of hits allowed per window.
func (l *RateLimiter) Limit() int64 { return l.limit }

func (l *RateLimiter) key(key string, windowStart time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", l.scope, key, windowStart.Unix())
}
