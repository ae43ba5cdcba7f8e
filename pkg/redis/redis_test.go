package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/wonny/tradejournal/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on disabled client error = %v", err)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(Disabled(), "test")
	limit := APIRateLimit("127.0.0.1", 5, 10)

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(context.Background(), limit)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("Expected request to be allowed when Redis disabled")
	}
	if remaining != limit.Limit {
		t.Errorf("Expected remaining = %d, got %d", limit.Limit, remaining)
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(Disabled(), "test")
	ctx := context.Background()

	// When Redis is disabled, cache operations should be no-ops
	var result string
	found, err := cache.Get(ctx, "key", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	if err := cache.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Errorf("Set() error = %v", err)
	}
}

func TestCache_GetOrSetDisabledCallsFn(t *testing.T) {
	cache := NewCache(Disabled(), "test")

	calls := 0
	var dest []int
	hit, err := cache.GetOrSet(context.Background(), "k", &dest, time.Minute, func() (interface{}, error) {
		calls++
		return []int{1, 2, 3}, nil
	})
	if err != nil {
		t.Fatalf("GetOrSet() error = %v", err)
	}
	if hit {
		t.Error("Expected miss when Redis disabled")
	}
	if calls != 1 || len(dest) != 3 {
		t.Errorf("Expected fn result in dest, got calls=%d dest=%v", calls, dest)
	}
}

func TestAPIRateLimit(t *testing.T) {
	limit := APIRateLimit("10.0.0.1", 20, 40)

	if limit.Key != "api:10.0.0.1" {
		t.Errorf("unexpected key %q", limit.Key)
	}
	if limit.Limit != 40 {
		t.Errorf("Expected limit 40, got %d", limit.Limit)
	}
	if limit.Window != 2*time.Second {
		t.Errorf("Expected window 2s, got %v", limit.Window)
	}
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{
			name:     "ComputeKey",
			fn:       func() string { return ComputeKey("abc123") },
			expected: "kpi:compute:abc123",
		},
		{
			name:     "GroupKey",
			fn:       func() string { return GroupKey("symbol", "abc123") },
			expected: "kpi:group:symbol:abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCache_RoundTrip(t *testing.T) {
	if os.Getenv("REDIS_HOST") == "" || testing.Short() {
		t.Skip("REDIS_HOST not set, skipping integration test")
	}

	cfg := &config.Config{Redis: config.RedisConfig{
		Host:    os.Getenv("REDIS_HOST"),
		Port:    "6379",
		Enabled: true,
	}}
	client, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	cache := NewCache(client, "test")
	ctx := context.Background()
	if err := cache.Set(ctx, "roundtrip", map[string]float64{"net_pnl": 50}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	defer cache.Delete(ctx, "roundtrip")

	var got map[string]float64
	found, err := cache.Get(ctx, "roundtrip", &got)
	if err != nil || !found {
		t.Fatalf("Get() found=%v err=%v", found, err)
	}
	if got["net_pnl"] != 50 {
		t.Errorf("Expected 50, got %v", got["net_pnl"])
	}
}
