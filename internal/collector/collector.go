// Package collector exports the scheduler's state as Prometheus metrics.
package collector

import (
	"context"
	"log/slog"
	"sync"

	"github.com/clambin/absensi/internal/attendance"
	"github.com/clambin/absensi/internal/deferral"
	"github.com/clambin/absensi/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	deferralActive = prometheus.NewDesc(
		prometheus.BuildFQName("absensi", "deferral", "active"),
		"1 if attendance is deferred",
		nil,
		nil,
	)
	lastRunTimestamp = prometheus.NewDesc(
		prometheus.BuildFQName("absensi", "last_run", "timestamp_seconds"),
		"Time the last day run finished",
		nil,
		nil,
	)
	lastRunReason = prometheus.NewDesc(
		prometheus.BuildFQName("absensi", "last_run", "reason"),
		"Outcome of the last day run, if the value is 1. See label 'reason'",
		[]string{"reason"},
		nil,
	)
	submissions = prometheus.NewDesc(
		prometheus.BuildFQName("absensi", "", "submissions_total"),
		"Number of attendance submissions",
		[]string{"session"},
		nil,
	)
)

type Publisher interface {
	Subscribe() <-chan scheduler.Report
	Unsubscribe(<-chan scheduler.Report)
}

type Deferral interface {
	Status() deferral.State
}

type Collector struct {
	Publisher   Publisher
	Deferral    Deferral
	Logger      *slog.Logger
	lock        sync.RWMutex
	lastReport  *scheduler.Report
	submissions map[attendance.Label]int
}

func (c *Collector) Run(ctx context.Context) error {
	c.Logger.Debug("started")
	defer c.Logger.Debug("stopped")

	ch := c.Publisher.Subscribe()
	defer c.Publisher.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case report := <-ch:
			c.process(report)
		}
	}
}

func (c *Collector) process(report scheduler.Report) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.lastReport = &report
	if c.submissions == nil {
		c.submissions = make(map[attendance.Label]int)
	}
	for _, label := range report.Submitted {
		c.submissions[label]++
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- deferralActive
	ch <- lastRunTimestamp
	ch <- lastRunReason
	ch <- submissions
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	var value float64
	if c.Deferral != nil && c.Deferral.Status().Active {
		value = 1
	}
	ch <- prometheus.MustNewConstMetric(deferralActive, prometheus.GaugeValue, value)

	c.lock.RLock()
	defer c.lock.RUnlock()

	for _, label := range []attendance.Label{attendance.Morning, attendance.Evening} {
		ch <- prometheus.MustNewConstMetric(submissions, prometheus.CounterValue, float64(c.submissions[label]), string(label))
	}

	if c.lastReport == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(lastRunTimestamp, prometheus.GaugeValue, float64(c.lastReport.Finished.Unix()))
	for _, reason := range scheduler.Reasons {
		value = 0
		if reason == c.lastReport.Reason {
			value = 1
		}
		ch <- prometheus.MustNewConstMetric(lastRunReason, prometheus.GaugeValue, value, string(reason))
	}
}
