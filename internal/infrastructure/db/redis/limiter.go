package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const limiterKeyPrefix = "login:attempts:"

// LoginLimiter counts login attempts per key in fixed windows.
// Key format: login:attempts:<key>
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLoginLimiter allows limit attempts per window. A limit <= 0 disables it.
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration) *LoginLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{client: client, limit: limit, window: window}
}

// Allow records an attempt for key and reports whether it is within the limit.
//
// INCR and EXPIRE NX run in one MULTI/EXEC: a counter never exists without a
// TTL, and a key that somehow lost its TTL gets one on the next attempt.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	redisKey := limiterKeyPrefix + key
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("login limiter: %w", err)
	}

	return incr.Val() <= int64(l.limit), nil
}
