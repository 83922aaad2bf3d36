// Package clock abstracts wall-clock time so the scheduler's waits can be driven by tests.
package clock

import (
	"context"
	"time"
)

// A Clock tells the time and sleeps.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// Real is a Clock backed by the system clock, reporting time in Location.
type Real struct {
	Location *time.Location
}

var _ Clock = Real{}

func (r Real) Now() time.Time {
	now := time.Now()
	if r.Location != nil {
		now = now.In(r.Location)
	}
	return now
}

// Sleep blocks for d, or until ctx is done, in which case it returns ctx's error.
func (r Real) Sleep(ctx context.Context, d time.Duration) error {
	return Sleep(ctx, d)
}

// Sleep waits for d, returning early with ctx.Err() if ctx is canceled first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Date returns midnight of t's calendar day, in t's location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// At returns the instant on t's calendar day at hour:minute.
func At(t time.Time, hour, minute int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, t.Location())
}
