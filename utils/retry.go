package utils

import (
	"fmt"
	"time"
)

// RetryConfig holds the parameters for the retry strategy. It guards the
// exchange-rate refresh, the only network call in the pipeline.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do executes fn with exponential back-off, returning nil on the first
// success. A MaxAttempts below 1 is treated as a single attempt.
func (r *RetryConfig) Do(op string, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := r.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}

		if attempt < attempts {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying in %v",
				op, attempt, attempts, lastErr, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, attempts, lastErr)
}
