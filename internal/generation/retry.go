package generation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy configures exponential backoff for provider calls.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// BaseDelay is the delay before the first retry; each further retry doubles it.
	BaseDelay time.Duration
}

// DefaultRetryPolicy returns 3 retries starting at 2 seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: 2 * time.Second}
}

// delay returns the backoff before retry number attempt (0-based):
// BaseDelay * 2^attempt * jitter, with jitter in [0.5, 1.0).
func (p RetryPolicy) delay(attempt int) time.Duration {
	backoff := float64(p.BaseDelay) * math.Pow(2, float64(attempt))
	jitter := 0.5 + rand.Float64()*0.5
	return time.Duration(backoff * jitter)
}

// Retry calls fn until it succeeds, returns a non-transient error, the
// retries are exhausted or ctx is done. Errors are classified with
// IsTransient, so fn should return *ProviderError values.
func Retry(ctx context.Context, logger *slog.Logger, policy RetryPolicy, fn func(ctx context.Context) error) error {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				logger.InfoContext(ctx, "provider call succeeded after retry", "attempt", attempt+1)
			}
			return nil
		}

		if !IsTransient(err) {
			return err
		}

		if attempt >= policy.MaxRetries {
			logger.WarnContext(ctx, "maximum retry attempts reached",
				"max_retries", policy.MaxRetries,
				"error", err)
			return fmt.Errorf("%w: exceeded maximum retry attempts (%d): %w",
				ErrTransientFailure, policy.MaxRetries, err)
		}

		delay := policy.delay(attempt)
		logger.InfoContext(ctx, "retrying provider call after transient error",
			"attempt", attempt+1,
			"max_attempts", policy.MaxRetries+1,
			"delay", delay.String(),
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: cancelled during retry delay: %w", ErrTransientFailure, err)
		}
	}
}
