package collector

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/clambin/absensi/internal/attendance"
	"github.com/clambin/absensi/internal/deferral"
	"github.com/clambin/absensi/internal/pubsub"
	"github.com/clambin/absensi/internal/scheduler"
	clocktest "github.com/clambin/absensi/internal/testutil"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	l := slog.New(slog.DiscardHandler)
	d := deferral.New(clocktest.NewFakeClock(time.Date(2025, time.January, 7, 9, 0, 0, 0, time.UTC)), nil, l)
	c := Collector{Deferral: d, Logger: l}

	require.NoError(t, testutil.CollectAndCompare(&c, strings.NewReader(`
# HELP absensi_deferral_active 1 if attendance is deferred
# TYPE absensi_deferral_active gauge
absensi_deferral_active 0

# HELP absensi_submissions_total Number of attendance submissions
# TYPE absensi_submissions_total counter
absensi_submissions_total{session="evening"} 0
absensi_submissions_total{session="morning"} 0
`)))

	c.process(scheduler.Report{
		Reason:    scheduler.Completed,
		Submitted: []attendance.Label{attendance.Morning, attendance.Evening},
		Finished:  time.Date(2025, time.January, 7, 17, 30, 0, 0, time.UTC),
	})
	c.process(scheduler.Report{
		Reason:    scheduler.Deferred,
		Submitted: []attendance.Label{attendance.Morning},
		Finished:  time.Date(2025, time.January, 8, 9, 0, 0, 0, time.UTC),
	})
	d.Defer()

	require.NoError(t, testutil.CollectAndCompare(&c, strings.NewReader(`
# HELP absensi_deferral_active 1 if attendance is deferred
# TYPE absensi_deferral_active gauge
absensi_deferral_active 1

# HELP absensi_last_run_reason Outcome of the last day run, if the value is 1. See label 'reason'
# TYPE absensi_last_run_reason gauge
absensi_last_run_reason{reason="already-complete"} 0
absensi_last_run_reason{reason="canceled"} 0
absensi_last_run_reason{reason="completed"} 0
absensi_last_run_reason{reason="deferred"} 1
absensi_last_run_reason{reason="internal-error"} 0
absensi_last_run_reason{reason="non-working-day"} 0
absensi_last_run_reason{reason="offline"} 0
absensi_last_run_reason{reason="status-unavailable"} 0
absensi_last_run_reason{reason="submission-failed"} 0

# HELP absensi_last_run_timestamp_seconds Time the last day run finished
# TYPE absensi_last_run_timestamp_seconds gauge
absensi_last_run_timestamp_seconds 1.7363268e+09

# HELP absensi_submissions_total Number of attendance submissions
# TYPE absensi_submissions_total counter
absensi_submissions_total{session="evening"} 1
absensi_submissions_total{session="morning"} 2
`)))
}

func TestCollector_Run(t *testing.T) {
	l := slog.New(slog.DiscardHandler)
	p := pubsub.New[scheduler.Report](l)
	c := Collector{Publisher: p, Logger: l}
	go func() { _ = c.Run(t.Context()) }()

	assert.Eventually(t, func() bool { return p.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	p.Publish(scheduler.Report{Reason: scheduler.Offline})

	assert.Eventually(t, func() bool {
		c.lock.RLock()
		defer c.lock.RUnlock()
		return c.lastReport != nil && c.lastReport.Reason == scheduler.Offline
	}, time.Second, 10*time.Millisecond)
}
