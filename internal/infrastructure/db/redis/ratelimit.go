package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles login attempts per key (email or address) using a
// fixed window counter in Redis.
// Key format: login_attempts:<key>:<window_start_unix>
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLoginLimiter creates a LoginLimiter allowing limit attempts per window.
// A limit <= 0 disables throttling entirely.
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration) *LoginLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{client: client, limit: limit, window: window}
}

// Allow records one attempt for key and reports whether it is within the
// limit. On Redis failure it fails open: login availability beats throttling.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	k := l.key(key, time.Now())
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return true, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= int64(l.limit), nil
}

func (l *LoginLimiter) key(key string, now time.Time) string {
	windowStart := now.Truncate(l.window).Unix()
	return fmt.Sprintf("login_attempts:%s:%d", key, windowStart)
}
