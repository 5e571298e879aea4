package summarize

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

const MaxRetries = 3

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// WithRetries calls the provider, retrying transient failures with
// exponential backoff.
func WithRetries(ctx context.Context, p Provider, text string) (string, error) {
	var summary string
	var lastErr error
	for attempt := range MaxRetries {
		summary, lastErr = p.Summarize(ctx, text)
		if lastErr == nil || !IsRetryable(lastErr) {
			return summary, lastErr
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}
