package utils

import (
	"errors"
	"time"
)

// Retry calls fn up to maxAttempts times, doubling the delay after each
// failure. The last error is returned when every attempt fails.
func Retry[T any](maxAttempts int, initialDelay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if maxAttempts < 1 {
		return zero, errors.New("max attempts must be at least 1")
	}
	delay := initialDelay
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var result T
		result, err = fn()
		if err == nil {
			return result, nil
		}
		if attempt < maxAttempts {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return zero, err
}
