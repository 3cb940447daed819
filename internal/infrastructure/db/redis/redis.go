package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout = 2 * time.Second
	defaultOpTimeout   = 250 * time.Millisecond
)

// Config captures the settings of the Redis connection behind the login
// limiter. OpTimeout bounds every command: the limiter sits in front of
// each login and fails open, so a slow Redis must give up quickly instead
// of stalling the request.
type Config struct {
	Addr        string
	DB          int
	DialTimeout time.Duration
	OpTimeout   time.Duration
}

func (c Config) options() *redis.Options {
	dial := c.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}
	op := c.OpTimeout
	if op <= 0 {
		op = defaultOpTimeout
	}
	return &redis.Options{
		Addr:                  c.Addr,
		DB:                    c.DB,
		DialTimeout:           dial,
		ReadTimeout:           op,
		WriteTimeout:          op,
		ContextTimeoutEnabled: true,
		MaxRetries:            1,
	}
}

// Connect opens a client for the login limiter and checks it with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := cfg.options()
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// OpenLoginLimiter connects to Redis and returns a limiter over it along
// with the client, which the caller closes.
func OpenLoginLimiter(ctx context.Context, cfg Config, limit int, window time.Duration) (*LoginLimiter, *redis.Client, error) {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return NewLoginLimiter(client, limit, window), client, nil
}
