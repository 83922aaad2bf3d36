// Package retry runs fallible operations a bounded number of times with a fixed delay between attempts.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/clambin/absensi/internal/clock"
)

// Policy is the retry policy. It does not change during the lifetime of the process.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Executor applies a Policy. Sleep defaults to clock.Sleep.
type Executor struct {
	Policy
	Sleep  func(context.Context, time.Duration) error
	Logger *slog.Logger
}

func New(policy Policy, logger *slog.Logger) *Executor {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Executor{
		Policy: policy,
		Sleep:  clock.Sleep,
		Logger: logger,
	}
}

// Do calls op until it succeeds, at most e.MaxAttempts times.
//
// Network and unexpected failures are retried alike; the class only changes what is logged.
// If every attempt fails, Do returns an error matching ErrExhausted, which callers must treat as
// "outcome unknown", never as success. A Permanent error ends the loop immediately and is returned as is.
func Do[T any](ctx context.Context, e *Executor, name string, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var err error
	for attempt := 1; attempt <= e.MaxAttempts; attempt++ {
		var result T
		if result, err = op(ctx); err == nil {
			return result, nil
		}
		if IsPermanent(err) {
			return zero, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		class := Classify(err)
		e.logger().Warn(name+" failed: "+class.String(),
			"attempt", attempt,
			"maxAttempts", e.MaxAttempts,
			"network", class.IsNetwork(),
			"err", err,
		)

		if attempt == e.MaxAttempts {
			break
		}
		e.logger().Info("retrying "+name, "delay", e.Delay)
		if sleepErr := e.sleep(ctx, e.Delay); sleepErr != nil {
			return zero, sleepErr
		}
	}
	e.logger().Error(name+" failed after all attempts", "attempts", e.MaxAttempts)
	return zero, &errExhausted{attempts: e.MaxAttempts, err: err}
}

func (e *Executor) sleep(ctx context.Context, d time.Duration) error {
	if e.Sleep == nil {
		return clock.Sleep(ctx, d)
	}
	return e.Sleep(ctx, d)
}

func (e *Executor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Attempts returns the number of attempts recorded in an error returned by Do, or 0.
func Attempts(err error) int {
	var exhausted *errExhausted
	if errors.As(err, &exhausted) {
		return exhausted.attempts
	}
	return 0
}
