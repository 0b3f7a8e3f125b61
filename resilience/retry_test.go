package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), DefaultRetryConfig(), func() (string, error) {
		calls++
		return "success", nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %s", result)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_SucceedsAfterRetry(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), fastRetry(3), func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("temporary error")
		}
		return "success", nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "success" || calls != 3 {
		t.Errorf("got result=%q calls=%d", result, calls)
	}
}

func TestRetry_ExceedsMaxAttempts(t *testing.T) {
	calls := 0
	testErr := errors.New("persistent error")
	_, err := Retry(context.Background(), fastRetry(3), func() (int, error) {
		calls++
		return 0, testErr
	})
	if !errors.Is(err, testErr) {
		t.Errorf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_ReturnsLastResultWithError(t *testing.T) {
	_, err := Retry(context.Background(), fastRetry(2), func() (*int, error) {
		v := 42
		return &v, errors.New("failed response")
	})
	if err == nil {
		t.Fatal("expected error")
	}

	got, err := Retry(context.Background(), fastRetry(2), func() (*int, error) {
		v := 7
		return &v, errors.New("still failing")
	})
	if err == nil || got == nil || *got != 7 {
		t.Errorf("expected last result to be kept, got %v, %v", got, err)
	}
}

func TestRetry_RetryIfStopsEarly(t *testing.T) {
	permanent := errors.New("permanent")
	cfg := fastRetry(5)
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	_, err := Retry(context.Background(), cfg, func() (string, error) {
		calls++
		return "", permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_OnRetryCallback(t *testing.T) {
	cfg := fastRetry(3)
	var attempts []int
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		attempts = append(attempts, attempt)
		if backoff <= 0 {
			t.Errorf("expected positive backoff, got %v", backoff)
		}
	}

	_ = RetryFunc(context.Background(), cfg, func() error {
		return errors.New("fail")
	})
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("expected OnRetry for attempts [1 2], got %v", attempts)
	}
}

func TestRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryFunc(ctx, fastRetry(3), func() error {
		calls++
		return errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no calls after cancellation, got %d", calls)
	}
}

func TestDefaultRetryIf(t *testing.T) {
	if DefaultRetryIf(context.Canceled) || DefaultRetryIf(context.DeadlineExceeded) {
		t.Error("context errors must not be retried")
	}
	if !DefaultRetryIf(errors.New("io")) {
		t.Error("ordinary errors should be retried")
	}
}
