package ai

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		Retryable:  IsRateLimited,
	}
}

func TestRetrySucceedsAfterRateLimit(t *testing.T) {
	calls := 0
	err := testPolicy(2).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &APIError{StatusCode: 429, Body: "slow down"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	permanent := &APIError{StatusCode: 400, Body: "bad request"}
	calls := 0
	err := testPolicy(2).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Do() error = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (permanent errors must not retry)", calls)
	}
}

func TestRetryExhaustionReturnsLastError(t *testing.T) {
	calls := 0
	err := testPolicy(2).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return &APIError{StatusCode: 429, Body: "still limited"}
	})
	if !IsRateLimited(err) {
		t.Fatalf("Do() error = %v, want the final rate-limit error", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3 (initial attempt plus two retries)", calls)
	}
}

func TestRetryNilPredicateNeverRetries(t *testing.T) {
	p := RetryPolicy{MaxRetries: 5, BaseDelay: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("Do() error = nil, want boom")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetryHonoursContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	p := RetryPolicy{
		MaxRetries: 10,
		BaseDelay:  50 * time.Millisecond,
		Retryable:  IsRateLimited,
	}
	err := p.Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return &APIError{StatusCode: 429, Body: "limited"}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestIsRateLimited(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"429", &APIError{StatusCode: 429}, true},
		{"500", &APIError{StatusCode: 500}, false},
		{"wrapped 429", errors.Join(errors.New("outer"), &APIError{StatusCode: 429}), true},
		{"plain error", errors.New("nope"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		if got := IsRateLimited(tc.err); got != tc.want {
			t.Errorf("%s: IsRateLimited() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
