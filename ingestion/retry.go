package ingestion

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy bounds how often a failed operation is attempted.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Delay is the wait before the second attempt.
	Delay time.Duration
	// Exponential doubles the delay after every failed attempt.
	// When false the delay is fixed.
	Exponential bool
}

// DefaultRetryPolicy is used by a Loader unless overridden.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	Delay:       time.Second,
	Exponential: true,
}

// delay returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.Delay
	if p.Exponential {
		for i := 1; i < attempt; i++ {
			d *= 2
		}
	}
	return d
}

// Retry runs operation until it succeeds, policy.MaxAttempts is reached,
// or ctx is done. Returns the error from the last attempt if all fail.
func Retry(ctx context.Context, policy RetryPolicy, operation func() error) error {
	if policy.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		slog.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", policy.MaxAttempts, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == policy.MaxAttempts {
			break
		}

		timer := time.NewTimer(policy.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
