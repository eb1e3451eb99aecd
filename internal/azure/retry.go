// Package azure holds helpers shared by the Azure-facing packages.
package azure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryConfig shapes the exponential backoff used for template downloads.
type RetryConfig struct {
	MaxAttempts int // including the first call
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// Retryable decides whether an error is worth another attempt. Nil means
	// every error except a Permanent one is retried.
	Retryable func(error) bool
}

const (
	DefaultMaxRetryAttempts = 3
	DefaultRetryBaseDelay   = time.Second
	DefaultRetryMaxDelay    = 30 * time.Second

	jitterPercent = 25
)

// DefaultRetryConfig returns the defaults used for template downloads.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: DefaultMaxRetryAttempts,
		BaseDelay:   DefaultRetryBaseDelay,
		MaxDelay:    DefaultRetryMaxDelay,
	}
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxRetryAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultRetryBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultRetryMaxDelay
	}
	return c
}

func (c RetryConfig) backoff() retry.Backoff {
	b := retry.NewExponential(c.BaseDelay)
	b = retry.WithCappedDuration(c.MaxDelay, b)
	b = retry.WithJitterPercent(jitterPercent, b)
	return retry.WithMaxRetries(uint64(c.MaxAttempts-1), b)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not retryable. Retry returns the wrapped error
// unchanged.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry calls fn until it succeeds, the attempts run out, the error is not
// retryable, or ctx is done.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var (
		result   T
		attempts int
	)
	err := retry.Do(ctx, cfg.backoff(), func(ctx context.Context) error {
		attempts++
		v, err := fn(ctx)
		if err == nil {
			result = v
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm
		}
		if cfg.Retryable != nil && !cfg.Retryable(err) {
			return err
		}
		return retry.RetryableError(err)
	})

	var zero T
	var perm *permanentError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &perm):
		return zero, perm.err
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return zero, fmt.Errorf("retry canceled after %d attempts: %w", attempts, err)
	case attempts == cfg.MaxAttempts:
		return zero, fmt.Errorf("after %d attempts: %w", attempts, err)
	default:
		return zero, err
	}
}
