// Package scheduler runs the daily attendance state machine.
//
// Once per calendar day, the Scheduler checks whether attendance is owed today, fetches the remote status,
// draws random submission times within the configured windows, waits for them and submits.
// Between runs, it sleeps until shortly after midnight.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/clambin/absensi/internal/attendance"
	"github.com/clambin/absensi/internal/clock"
	"github.com/clambin/absensi/internal/pubsub"
	"github.com/clambin/absensi/internal/retry"
	"github.com/clambin/go-common/set"
	"github.com/google/uuid"
)

// Remote performs the calls to the attendance service.
type Remote interface {
	Status(ctx context.Context, day time.Time) (attendance.DailyStatus, error)
	Submit(ctx context.Context, label attendance.Label) (string, error)
}

type Prober interface {
	IsReachable(ctx context.Context) bool
}

// Deferral must expire deferrals from earlier days when queried.
type Deferral interface {
	IsDeferredToday() bool
}

type Notifier interface {
	Notify(string)
}

// Configuration holds the scheduling parameters.
type Configuration struct {
	Morning       Window
	Evening       Window
	Weekdays      set.Set[time.Weekday]
	WakeAt        TimeOfDay
	PollInterval  time.Duration
	ProbeInterval time.Duration
}

type Scheduler struct {
	Remote   Remote
	Probe    Prober
	Deferral Deferral
	Notifier Notifier
	Executor *retry.Executor
	Clock    clock.Clock
	Rand     *rand.Rand
	*pubsub.Publisher[Report]
	config Configuration
	logger *slog.Logger
}

func New(remote Remote, probe Prober, deferral Deferral, notifier Notifier, executor *retry.Executor, c clock.Clock, cfg Configuration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		Remote:    remote,
		Probe:     probe,
		Deferral:  deferral,
		Notifier:  notifier,
		Executor:  executor,
		Clock:     c,
		Rand:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		Publisher: pubsub.New[Report](logger.With("component", "publisher")),
		config:    cfg,
		logger:    logger,
	}
}

// Run performs one day run per calendar day until ctx is canceled.
//
// A day run never stops the loop: panics are recovered and logged, and the scheduler moves on to the next day.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Debug("started")
	defer s.logger.Debug("stopped")

	for {
		report := s.runDay(ctx)
		s.Publish(report)
		if ctx.Err() != nil {
			return nil
		}

		now := s.Clock.Now()
		next := s.NextWake(now)
		s.logger.Info("waiting for next day",
			"until", next.Format(time.DateTime),
			"hours", fmt.Sprintf("%.2f", next.Sub(now).Hours()),
		)
		if err := s.Clock.Sleep(ctx, next.Sub(now)); err != nil {
			return nil
		}
	}
}

func (s *Scheduler) runDay(ctx context.Context) (report Report) {
	r := s.newReport()
	defer func() {
		if err := recover(); err != nil {
			s.logger.Error("critical error during day run. continuing with next day", "run", r.RunID, "err", err)
			report = s.finish(r, InternalError)
		}
	}()
	return s.execute(ctx, r)
}

// NextWake returns the time of the next day run: WakeAt on the calendar day after now.
func (s *Scheduler) NextWake(now time.Time) time.Time {
	return s.config.WakeAt.On(now.AddDate(0, 0, 1))
}

// RunDay performs today's run and reports how it ended.
func (s *Scheduler) RunDay(ctx context.Context) Report {
	return s.execute(ctx, s.newReport())
}

func (s *Scheduler) newReport() *Report {
	now := s.Clock.Now()
	return &Report{
		RunID:   uuid.NewString(),
		Day:     now.Format(time.DateOnly),
		Started: now,
	}
}

// execute runs the day, recording its progress in r.
func (s *Scheduler) execute(ctx context.Context, r *Report) Report {
	now := r.Started
	l := s.logger.With("run", r.RunID)

	r.enter(CheckingEligibility)
	if s.Deferral.IsDeferredToday() {
		l.Info("attendance deferred for today. skipping")
		return s.finish(r, Deferred)
	}
	if !s.config.Weekdays.Contains(now.Weekday()) {
		l.Info("not a working day. skipping", "weekday", now.Weekday().String())
		return s.finish(r, NonWorkingDay)
	}
	l.Info("starting day run", "weekday", now.Weekday().String())

	if !s.Probe.IsReachable(ctx) {
		l.Warn("no network connection. will try again on next run")
		return s.finish(r, Offline)
	}

	r.enter(FetchingStatus)
	status, err := retry.Do(ctx, s.Executor, "status check", func(ctx context.Context) (attendance.DailyStatus, error) {
		status, err := s.Remote.Status(ctx, now)
		return status, permanentOnAuth(err)
	})
	if err != nil {
		if errors.Is(err, attendance.ErrLoginFailed) {
			l.Error("login failed during status check")
		}
		l.Error("cannot determine attendance status. skipping today", "err", err)
		s.notify("attendance status unavailable for " + r.Day)
		return s.finish(r, reasonFor(ctx, StatusUnavailable))
	}
	r.Status = &status

	r.MorningTarget = s.config.Morning.Draw(now, s.Rand)
	r.EveningTarget = s.config.Evening.Draw(now, s.Rand)
	l.Info("morning submission scheduled", "at", r.MorningTarget.Format(time.TimeOnly))
	l.Info("evening submission scheduled", "at", r.EveningTarget.Format(time.TimeOnly))

	var plan []attendance.Label
	switch {
	case status.Arrival == nil:
		l.Info("not checked in yet. waiting for morning submission")
		plan = []attendance.Label{attendance.Morning, attendance.Evening}
	case status.Departure == nil:
		l.Info("checked in, not checked out yet. waiting for evening submission", "arrival", *status.Arrival)
		plan = []attendance.Label{attendance.Evening}
	default:
		l.Info("attendance already complete for today", "arrival", *status.Arrival, "departure", *status.Departure)
		return s.finish(r, AlreadyComplete)
	}

	for _, label := range plan {
		if reason, ok := s.submitAt(ctx, l, r, label); !ok {
			return s.finish(r, reason)
		}
	}

	l.Info("all attendance for today submitted")
	return s.finish(r, Completed)
}

func (s *Scheduler) submitAt(ctx context.Context, l *slog.Logger, r *Report, label attendance.Label) (Reason, bool) {
	target, state := r.MorningTarget, AwaitingMorning
	if label == attendance.Evening {
		target, state = r.EveningTarget, AwaitingEvening
	}
	r.enter(state)

	if reason, ok := s.wait(ctx, l, target); !ok {
		return reason, false
	}
	if s.Deferral.IsDeferredToday() {
		l.Info("attendance deferred before submission", "session", label)
		return Deferred, false
	}

	r.enter(Executing)
	l.Info("submitting attendance", "session", label)
	response, err := retry.Do(ctx, s.Executor, string(label)+" submission", func(ctx context.Context) (string, error) {
		resp, err := s.Remote.Submit(ctx, label)
		return resp, permanentOnAuth(err)
	})
	if err != nil {
		l.Error("attendance submission failed", "session", label, "err", err)
		s.notify(string(label) + " attendance failed: " + err.Error())
		return reasonFor(ctx, SubmissionFailed), false
	}
	l.Info("attendance submitted", "session", label, "response", response)
	r.Submitted = append(r.Submitted, label)
	s.notify(string(label) + " attendance submitted")
	return "", true
}

// wait polls until target, checking the deferral every poll and the network every ProbeInterval.
// It returns false if the wait was aborted by a deferral or by ctx.
func (s *Scheduler) wait(ctx context.Context, l *slog.Logger, target time.Time) (Reason, bool) {
	l.Info("waiting", "until", target.Format(time.TimeOnly))
	var lastProbe time.Time
	for {
		now := s.Clock.Now()
		if !now.Before(target) {
			return "", true
		}
		if s.Deferral.IsDeferredToday() {
			l.Info("attendance deferred while waiting")
			return Deferred, false
		}
		if lastProbe.IsZero() || now.Sub(lastProbe) >= s.config.ProbeInterval {
			if !s.Probe.IsReachable(ctx) {
				l.Warn("no network connection. still waiting")
			}
			lastProbe = now
		}
		if err := s.Clock.Sleep(ctx, min(s.config.PollInterval, target.Sub(now))); err != nil {
			return Canceled, false
		}
	}
}

func (s *Scheduler) finish(r *Report, reason Reason) Report {
	r.enter(Done)
	r.Reason = reason
	r.Finished = s.Clock.Now()
	return *r
}

func (s *Scheduler) notify(msg string) {
	if s.Notifier != nil {
		s.Notifier.Notify(msg)
	}
}

func reasonFor(ctx context.Context, reason Reason) Reason {
	if ctx.Err() != nil {
		return Canceled
	}
	return reason
}

// permanentOnAuth marks rejected credentials as non-retryable.
func permanentOnAuth(err error) error {
	if errors.Is(err, attendance.ErrLoginFailed) {
		return retry.Permanent(err)
	}
	return err
}
