package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestConfig_OptionsDefaults(t *testing.T) {
	opts := Config{Addr: "localhost:6379"}.options()
	if opts.DialTimeout != defaultDialTimeout {
		t.Fatalf("dial timeout: got %s", opts.DialTimeout)
	}
	if opts.ReadTimeout != defaultOpTimeout || opts.WriteTimeout != defaultOpTimeout {
		t.Fatalf("op timeouts: got %s/%s", opts.ReadTimeout, opts.WriteTimeout)
	}
	if !opts.ContextTimeoutEnabled || opts.MaxRetries != 1 {
		t.Fatalf("unexpected options: %+v", opts)
	}

	opts = Config{Addr: "x", OpTimeout: time.Second}.options()
	if opts.ReadTimeout != time.Second {
		t.Fatalf("explicit op timeout ignored: %s", opts.ReadTimeout)
	}
}

func TestOpenLoginLimiter(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	defer mr.Close()

	l, client, err := OpenLoginLimiter(context.Background(), Config{Addr: mr.Addr()}, 1, time.Minute)
	if err != nil {
		t.Fatalf("OpenLoginLimiter: %v", err)
	}
	defer client.Close()

	if ok, err := l.Allow(context.Background(), "k"); !ok || err != nil {
		t.Fatalf("first attempt: %v %v", ok, err)
	}
	if ok, _ := l.Allow(context.Background(), "k"); ok {
		t.Fatalf("second attempt should be blocked")
	}
}

func TestOpenLoginLimiter_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	l, client, err := OpenLoginLimiter(context.Background(), Config{Addr: addr, DialTimeout: 200 * time.Millisecond}, 5, time.Minute)
	if err == nil || l != nil || client != nil {
		t.Fatalf("expected connection error, got %v %v %v", l, client, err)
	}
}
