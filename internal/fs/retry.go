package fs

import (
	"context"
	"fmt"
	"time"
)

// implements retry logic with exponential backoff.
// It is used by rename and remove to ride out transient filesystem errors.

// RetryPolicy bounds how often a transient failure is retried.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// NoRetry runs each operation exactly once.
var NoRetry = RetryPolicy{Attempts: 1}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.Backoff <= 0 {
		p.Backoff = 100 * time.Millisecond
	}
	return p
}

func retry(ctx context.Context, p RetryPolicy, opName string, fn func() error) error {
	p = p.normalized()

	var lastErr error

	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if !isTransient(err) {
			return fmt.Errorf("%s failed permanently: %w", opName, err)
		}

		if attempt == p.Attempts {
			break
		}

		sleep := p.Backoff * (1 << (attempt - 1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", opName, p.Attempts, lastErr)
}
