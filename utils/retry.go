package utils

import (
	"fmt"
	"time"
)

// Retry executes fn with exponential back-off. It is used for storage
// connections and writes only — a failed page navigation is never retried,
// that path degrades to synthetic data instead.
func Retry(operationName string, maxAttempts int, baseDelay time.Duration, logger *Logger, fn func() error) error {
	var lastErr error
	delay := baseDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < maxAttempts {
			logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying in %v",
				operationName, attempt, maxAttempts, lastErr, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxAttempts, lastErr)
}
