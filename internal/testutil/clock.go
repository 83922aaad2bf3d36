package testutil

import (
	"context"
	"sync"
	"time"
)

// FakeClock is a clock.Clock whose Sleep advances time instantly.
type FakeClock struct {
	// OnSleep, if set, is called after every Sleep with the new time.
	OnSleep func(now time.Time)
	now     time.Time
	sleeps  []time.Duration
	lock    sync.Mutex
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *FakeClock) Set(now time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = now
}

func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.lock.Lock()
	if d > 0 {
		c.now = c.now.Add(d)
	}
	c.sleeps = append(c.sleeps, d)
	now, hook := c.now, c.OnSleep
	c.lock.Unlock()

	if hook != nil {
		hook(now)
	}
	return ctx.Err()
}

// Sleeps returns the durations passed to Sleep so far.
func (c *FakeClock) Sleeps() []time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}
