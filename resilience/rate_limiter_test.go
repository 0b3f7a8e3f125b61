package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiter_BurstThenLimited(t *testing.T) {
	limited := 0
	rl := NewRateLimiter(RateLimiterConfig{
		Name:    "api",
		Rate:    1,
		Burst:   2,
		OnLimit: func(string) { limited++ },
	})

	if !rl.Allow() || !rl.Allow() {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if rl.Allow() {
		t.Error("expected third request to be limited")
	}
	if limited != 1 {
		t.Errorf("expected OnLimit once, got %d", limited)
	}
}

func TestRateLimiter_Execute(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1})
	if err := rl.Execute(func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rl.Execute(func() error { return nil }); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.1, Burst: 1})
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Error("expected wait to fail before a token refills")
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{})
	if rl.config.Rate != 10 || rl.config.Burst != 10 {
		t.Errorf("unexpected defaults %+v", rl.config)
	}
	d := DefaultRateLimiterConfig("x")
	if d.Name != "x" || d.Burst != 20 {
		t.Errorf("unexpected default config %+v", d)
	}
}
