package ai

import (
	"context"
	"time"
)

// RetryPolicy retries an external call with exponential backoff. It is
// provider-agnostic: the retryable predicate decides which failures earn
// another attempt, everything else propagates immediately.
type RetryPolicy struct {
	// MaxRetries is the number of re-attempts after the first call.
	MaxRetries int
	// BaseDelay is the wait before the first retry; it doubles each
	// subsequent attempt.
	BaseDelay time.Duration
	// Retryable classifies errors. A nil predicate retries nothing.
	Retryable func(error) bool
}

// DefaultRetryPolicy matches the product's provider policy: two retries,
// half a second base delay, rate-limit failures only.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		Retryable:  IsRateLimited,
	}
}

// Do runs fn, retrying per the policy. The last error is returned once
// retries are exhausted.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	delay := p.BaseDelay
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxRetries {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}
