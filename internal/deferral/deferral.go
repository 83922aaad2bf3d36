// Package deferral holds the process-wide "skip attendance today" state.
//
// A Controller is shared between the scheduler and every control channel. All access is serialized.
package deferral

import (
	"log/slog"
	"sync"
	"time"

	"github.com/clambin/absensi/internal/clock"
)

const dateLayout = "2006-01-02"

// State is a snapshot of the deferral state.
type State struct {
	Active bool      `json:"active"`
	Date   time.Time `json:"date"`
}

// DateString returns the deferred date as YYYY-MM-DD, or an empty string if no date is stored.
func (s State) DateString() string {
	if s.Date.IsZero() {
		return ""
	}
	return s.Date.Format(dateLayout)
}

// Notifier receives a message when the deferral state changes on its own.
type Notifier interface {
	Notify(string)
}

type Controller struct {
	Clock    clock.Clock
	Notifier Notifier
	logger   *slog.Logger
	state    State
	lock     sync.Mutex
}

func New(c clock.Clock, notifier Notifier, logger *slog.Logger) *Controller {
	return &Controller{
		Clock:    c,
		Notifier: notifier,
		logger:   logger,
	}
}

// Defer suspends attendance for today. The boolean is false if today was already deferred.
func (c *Controller) Defer() (State, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	today := clock.Date(c.Clock.Now())
	if c.state.Active && c.state.Date.Equal(today) {
		return c.state, false
	}
	c.state = State{Active: true, Date: today}
	c.logger.Info("attendance deferred", "date", c.state.DateString())
	return c.state, true
}

// Cancel clears any deferral. It reports whether a deferral was active.
func (c *Controller) Cancel() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	wasActive := c.state.Active
	c.state = State{}
	if wasActive {
		c.logger.Info("deferral canceled")
	}
	return wasActive
}

// IsDeferredToday reports whether attendance is deferred for the current date.
//
// A deferral stored for an earlier date expires here: the state is reset and the Notifier is told.
// Call this before every wait or submission, so that a deferral never carries over to the next day.
func (c *Controller) IsDeferredToday() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	today := clock.Date(c.Clock.Now())
	if c.state.Active && c.state.Date.Equal(today) {
		return true
	}

	if !c.state.Date.IsZero() && c.state.Date.Before(today) {
		expired := c.state.DateString()
		c.state = State{}
		c.logger.Info("deferral expired", "date", expired)
		if c.Notifier != nil {
			c.Notifier.Notify("deferral for " + expired + " expired")
		}
	}
	return false
}

// Status returns the current state. It never modifies it.
func (c *Controller) Status() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}
