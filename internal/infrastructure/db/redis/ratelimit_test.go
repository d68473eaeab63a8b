package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRateLimiter_KeyIsScopedPerWindow(t *testing.T) {
	l := NewRateLimiter(nil, "auth", 100, 15*time.Minute)

	start := time.Unix(1_700_000_100, 0).Truncate(15 * time.Minute)
	got := l.key("203.0.113.7", start)
	want := "ratelimit:auth:203.0.113.7:" + strconv.FormatInt(start.Unix(), 10)
	if got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
}

func TestRateLimiter_DefaultWindow(t *testing.T) {
	l := NewRateLimiter(nil, "auth", 5, 0)
	if l.window != defaultWindow {
		t.Fatalf("expected default window %s, got %s", defaultWindow, l.window)
	}
	if l.Limit() != 5 {
		t.Fatalf("expected limit 5, got %d", l.Limit())
	}
}

func TestRateLimiter_UnreachableStoreReportsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewRateLimiter(client, "auth", 1, time.Minute)
	ok, reset, err := l.Allow(context.Background(), "198.51.100.1")
	if err == nil {
		t.Fatalf("expected error from unreachable redis")
	}
	if !ok {
		t.Fatalf("expected the request to be allowed when the store fails")
	}
	if reset.IsZero() {
		t.Fatalf("expected a reset time")
	}
}
