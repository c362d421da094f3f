package rpc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	"github.com/goran-ethernal/ReorgTracker/pkg/config"
)

// retryableError checks if an error should trigger a retry.
// Everything except caller cancellation and undecodable payloads is retried.
func retryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var decodeErr *DecodeError
	return !errors.As(err, &decodeErr)
}

// calculateBackoff computes the backoff duration for a given attempt with jitter.
func calculateBackoff(attempt int, cfg *config.RetryConfig) time.Duration {
	if attempt <= 1 {
		return 0
	}

	backoff := float64(cfg.InitialBackoff.Duration) * math.Pow(cfg.BackoffMultiplier, float64(attempt-2))

	if backoff > float64(cfg.MaxBackoff.Duration) {
		backoff = float64(cfg.MaxBackoff.Duration)
	}

	// jitter of ±25%
	jitterRange := backoff * 0.25 //nolint:mnd
	jitter := (rand.Float64() * 2 * jitterRange) - jitterRange //nolint:gosec
	backoff += jitter

	if backoff < 0 {
		backoff = 0
	}

	return time.Duration(backoff)
}

// retryWithBackoff executes fn with exponential backoff until it succeeds,
// fails with a non-retryable error, or cfg.MaxAttempts is reached.
// Every failed attempt is logged with the number of retries left.
func retryWithBackoff(
	ctx context.Context,
	cfg *config.RetryConfig,
	log *logger.Logger,
	operation string,
	fn func(ctx context.Context) error,
) error {
	if cfg == nil {
		return fn(ctx)
	}

	var lastErr error
	startTime := time.Now()

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled before attempt %d: %w", attempt, err)
		}

		if attempt > 1 {
			RetryInc(operation)
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if !retryableError(err) {
			return fmt.Errorf("non-retryable error on attempt %d/%d: %w", attempt, cfg.MaxAttempts, err)
		}

		log.Warnw("request attempt failed",
			"operation", operation,
			"attempt", attempt,
			"retries_left", cfg.MaxAttempts-attempt,
			"error", err,
		)

		if attempt >= cfg.MaxAttempts {
			break
		}

		backoffDuration := calculateBackoff(attempt+1, cfg)
		if backoffDuration > 0 {
			select {
			case <-time.After(backoffDuration):
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during backoff (attempt %d/%d): %w",
					attempt, cfg.MaxAttempts, ctx.Err())
			}
		}
	}

	return fmt.Errorf("all %d attempts failed after %v (last error: %w)",
		cfg.MaxAttempts, time.Since(startTime), lastErr)
}
