// Package retry runs remote calls under a bounded, linearly backed-off retry
// policy on top of github.com/sethvargo/go-retry.
package retry

import (
	"context"
	"errors"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/fishlog/internal/client/autherr"
)

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts counts the first call, so 3 means one call plus two retries.
	MaxAttempts int

	// Backoff returns the wait before the retry that follows the given
	// failed attempt (1-based).
	Backoff func(attempt int) time.Duration

	// Retryable decides whether a failure is worth another attempt. A nil
	// func retries everything.
	Retryable func(err error) bool

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Linear waits step*attempt: 1s, 2s, ... for a one-second step.
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return step * time.Duration(attempt)
	}
}

// NotUnauthorized retries everything except an HTTP 401, which no amount of
// retrying will fix.
func NotUnauthorized(err error) bool {
	var sc autherr.StatusCoder
	if errors.As(err, &sc) && sc.StatusCode() == 401 {
		return false
	}
	return true
}

// DefaultPolicy is three attempts, 1s then 2s apart, never retrying a 401.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     Linear(time.Second),
		Retryable:   NotUnauthorized,
	}
}

// Do calls op until it succeeds, fails with a non-retryable error, runs out
// of attempts or ctx is done. Once attempts run out the last raw failure is
// returned; a cancelled wait returns ctx.Err().
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	var (
		attempt int
		lastErr error
	)

	backoff := goretry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		if attempt >= p.MaxAttempts {
			return 0, true
		}
		delay := time.Duration(0)
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, lastErr)
		}
		return delay, false
	})

	return goretry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		return goretry.RetryableError(err)
	})
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
