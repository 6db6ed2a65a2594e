package ratelimit

import (
	"context"
	"fmt"
	"time"

	"merchant-data-gateway/internal/ports"

	goredis "github.com/redis/go-redis/v9"
)

// RedisLimiter is a sliding-window limiter shared across gateway instances.
type RedisLimiter struct {
	rdb       *goredis.Client
	keyPrefix string
	limit     int64
	window    time.Duration
}

// NewRedisLimiter creates a Redis-backed rate limiter allowing limit
// requests per window per key.
func NewRedisLimiter(rdb *goredis.Client, limit int64, window time.Duration) ports.RateLimiter {
	return &RedisLimiter{
		rdb:       rdb,
		keyPrefix: "ratelimit:",
		limit:     limit,
		window:    window,
	}
}

// allowScript trims entries older than the window, counts what remains and
// admits the request atomically.
var allowScript = goredis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call("zremrangebyscore", key, "-inf", window_start)

	local current = redis.call("zcard", key)
	if current < limit then
		redis.call("zadd", key, now, now .. "-" .. math.random())
		redis.call("pexpire", key, window_ms)
		return 1
	end
	return 0
`)

// Allow reports whether the request for key fits in the current window.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-r.window)

	allowed, err := allowScript.Run(ctx, r.rdb, []string{r.keyPrefix + key},
		now.UnixMilli(),
		windowStart.UnixMilli(),
		r.limit,
		r.window.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	return allowed == 1, nil
}
