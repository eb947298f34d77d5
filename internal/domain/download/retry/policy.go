// Package retry contains the retry policy applied to transient pipeline operations
package retry

import (
	"context"
	"errors"
	"time"

	goretry "github.com/sethvargo/go-retry"

	downloaderrors "github.com/magicxor/ytdl-inline-bot/internal/domain/download/errors"
)

// Policy retries an operation a fixed number of times with a constant delay
type Policy struct {
	MaxRetries uint64
	Delay      time.Duration
	// Retryable decides whether an error deserves another attempt, defaults to DefaultRetryable
	Retryable func(error) bool
	// OnRetry is called before every repeated attempt
	OnRetry func(op string, attempt int, err error)
}

// NewPolicy creates a policy with the default retryable predicate
func NewPolicy(maxRetries int, delay time.Duration) Policy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return Policy{
		MaxRetries: uint64(maxRetries),
		Delay:      delay,
		Retryable:  DefaultRetryable,
	}
}

// WithOnRetry returns a copy of the policy with hook installed
func (p Policy) WithOnRetry(hook func(op string, attempt int, err error)) Policy {
	p.OnRetry = hook
	return p
}

// DefaultRetryable retries everything except policy rejections and caller cancellation
func DefaultRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if _, ok := downloaderrors.AsRejection(err); ok {
		return false
	}
	return true
}

// Do runs fn until it succeeds, returns a non-retryable error, or exhausts the policy.
// The last error is returned unwrapped.
func (p Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = DefaultRetryable
	}

	delay := p.Delay
	if delay <= 0 {
		delay = time.Nanosecond
	}
	backoff := goretry.WithMaxRetries(p.MaxRetries, goretry.NewConstant(delay))

	attempt := 0
	var lastErr error
	err := goretry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if attempt > 1 && p.OnRetry != nil {
			p.OnRetry(op, attempt, lastErr)
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			return err
		}
		return goretry.RetryableError(err)
	})

	// go-retry reports a cancelled wait as ctx.Err(); keep the operation's error when there is one
	if err != nil && lastErr != nil && errors.Is(err, ctx.Err()) && !errors.Is(lastErr, ctx.Err()) {
		return lastErr
	}
	return err
}
