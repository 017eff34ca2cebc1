// Package retry provides exponential backoff retry logic with jitter.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Config holds retry configuration.
type Config struct {
	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int
	// InitialBackoff is the initial delay before retrying.
	InitialBackoff time.Duration
	// MaxBackoff is the maximum delay between retries.
	MaxBackoff time.Duration
	// Multiplier is the exponential backoff multiplier.
	Multiplier float64
	// JitterFraction is the fraction of backoff used for jitter (0.0-1.0).
	JitterFraction float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2, // +/- 20% jitter
	}
}

// ErrorClassifier determines if an error is retryable.
type ErrorClassifier func(error) bool

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that IsRetryable reports false for it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsRetryable is the default classifier. Context errors and errors wrapped
// with Permanent are not retried; everything else is.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var p *permanentError
	return !errors.As(err, &p)
}

// ExhaustedError is returned by Do when every attempt failed with a
// retryable error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Do executes fn with retry logic, using the provided classifier to determine
// if errors are retryable.
func Do(ctx context.Context, cfg Config, classifier ErrorClassifier, fn func(context.Context) error) error {
	if classifier == nil {
		classifier = IsRetryable
	}

	var lastErr error
	backoff := cfg.InitialBackoff
	attempts := 0

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		attempts++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !classifier(err) {
			return err
		}

		if attempt == cfg.MaxRetries {
			break
		}

		sleep := backoff + jitter(backoff, cfg.JitterFraction)
		if sleep > cfg.MaxBackoff {
			sleep = cfg.MaxBackoff
		}

		timer := time.NewTimer(sleep)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}

		backoff = time.Duration(float64(backoff) * cfg.Multiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return &ExhaustedError{Attempts: attempts, Err: lastErr}
}

// jitter returns a random duration in range [-jitterFraction*d, +jitterFraction*d].
func jitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return 0
	}
	jitterRange := float64(d) * fraction
	jitterValue := (rand.Float64() - 0.5) * 2 * jitterRange
	return time.Duration(jitterValue)
}
