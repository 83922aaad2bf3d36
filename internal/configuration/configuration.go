// Package configuration builds the typed configuration from viper and validates it.
package configuration

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/clambin/absensi/internal/reachability"
	"github.com/clambin/absensi/internal/retry"
	"github.com/clambin/absensi/internal/scheduler"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Configuration struct {
	Debug      bool                    `yaml:"debug"`
	Attendance AttendanceConfiguration `yaml:"attendance"`
	Schedule   ScheduleConfiguration   `yaml:"schedule"`
	Retry      RetryConfiguration      `yaml:"retry"`
	Probe      ProbeConfiguration      `yaml:"probe"`
	Log        LogConfiguration        `yaml:"log"`
	Control    ControlConfiguration    `yaml:"control"`
	Slack      SlackConfiguration      `yaml:"slack"`
}

type AttendanceConfiguration struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type ScheduleConfiguration struct {
	Morning       scheduler.Window    `yaml:"morning"`
	Evening       scheduler.Window    `yaml:"evening"`
	Weekdays      []string            `yaml:"weekdays"`
	Timezone      string              `yaml:"timezone"`
	WakeAt        scheduler.TimeOfDay `yaml:"wakeAt"`
	PollInterval  time.Duration       `yaml:"pollInterval"`
	ProbeInterval time.Duration       `yaml:"probeInterval"`
	location      *time.Location
}

// Location returns the time zone the schedule is evaluated in.
func (s ScheduleConfiguration) Location() *time.Location {
	if s.location == nil {
		return time.Local
	}
	return s.location
}

// Scheduler returns the scheduler's view of the schedule.
func (s ScheduleConfiguration) Scheduler() (scheduler.Configuration, error) {
	weekdays, err := scheduler.ParseWeekdays(s.Weekdays)
	if err != nil {
		return scheduler.Configuration{}, err
	}
	return scheduler.Configuration{
		Morning:       s.Morning,
		Evening:       s.Evening,
		Weekdays:      weekdays,
		WakeAt:        s.WakeAt,
		PollInterval:  s.PollInterval,
		ProbeInterval: s.ProbeInterval,
	}, nil
}

type RetryConfiguration struct {
	Enabled  bool          `yaml:"enabled"`
	Attempts int           `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Policy returns the retry policy. With retries disabled, every operation is tried once.
func (r RetryConfiguration) Policy() retry.Policy {
	if !r.Enabled {
		return retry.Policy{MaxAttempts: 1}
	}
	return retry.Policy{MaxAttempts: r.Attempts, Delay: r.Delay}
}

// RequestTimeout returns the per-request timeout of the attendance client. With retries disabled, requests have no timeout.
func (r RetryConfiguration) RequestTimeout() time.Duration {
	if !r.Enabled {
		return 0
	}
	return r.Timeout
}

type ProbeConfiguration struct {
	Targets        []string      `yaml:"targets"`
	Timeout        time.Duration `yaml:"timeout"`
	ServiceTimeout time.Duration `yaml:"serviceTimeout"`
}

// ProbeTargets returns the probe targets: the configured ones, followed by the attendance service itself.
func (c Configuration) ProbeTargets() []reachability.Target {
	targets := make([]reachability.Target, 0, len(c.Probe.Targets)+1)
	for _, target := range c.Probe.Targets {
		targets = append(targets, reachability.Target{URL: target, Timeout: c.Probe.Timeout})
	}
	if c.Attendance.URL != "" {
		targets = append(targets, reachability.Target{URL: c.Attendance.URL, Timeout: c.Probe.ServiceTimeout})
	}
	return targets
}

type LogConfiguration struct {
	File string `yaml:"file"`
}

type ControlConfiguration struct {
	Stdin          bool     `yaml:"stdin"`
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type SlackConfiguration struct {
	Token string `yaml:"token"`
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (Configuration, error) {
	cfg := Configuration{
		Debug: v.GetBool("debug"),
		Attendance: AttendanceConfiguration{
			URL:      v.GetString("attendance.url"),
			Username: v.GetString("attendance.username"),
			Password: v.GetString("attendance.password"),
		},
		Schedule: ScheduleConfiguration{
			Weekdays:      stringList(v, "schedule.weekdays"),
			Timezone:      v.GetString("schedule.timezone"),
			PollInterval:  v.GetDuration("schedule.pollInterval"),
			ProbeInterval: v.GetDuration("schedule.probeInterval"),
		},
		Retry: RetryConfiguration{
			Enabled:  v.GetBool("retry.enabled"),
			Attempts: v.GetInt("retry.attempts"),
			Delay:    v.GetDuration("retry.delay"),
			Timeout:  v.GetDuration("retry.timeout"),
		},
		Probe: ProbeConfiguration{
			Targets:        stringList(v, "probe.targets"),
			Timeout:        v.GetDuration("probe.timeout"),
			ServiceTimeout: v.GetDuration("probe.serviceTimeout"),
		},
		Log: LogConfiguration{
			File: v.GetString("log.file"),
		},
		Control: ControlConfiguration{
			Stdin:          v.GetBool("control.stdin"),
			Addr:           v.GetString("control.addr"),
			AllowedOrigins: stringList(v, "control.allowedOrigins"),
		},
		Slack: SlackConfiguration{
			Token: v.GetString("slack.token"),
		},
	}

	var errs []error
	var err error
	if cfg.Schedule.Morning, err = scheduler.ParseWindow(v.GetString("schedule.morning")); err != nil {
		errs = append(errs, fmt.Errorf("schedule.morning: %w", err))
	}
	if cfg.Schedule.Evening, err = scheduler.ParseWindow(v.GetString("schedule.evening")); err != nil {
		errs = append(errs, fmt.Errorf("schedule.evening: %w", err))
	}
	if cfg.Schedule.WakeAt, err = scheduler.ParseTimeOfDay(v.GetString("schedule.wakeAt")); err != nil {
		errs = append(errs, fmt.Errorf("schedule.wakeAt: %w", err))
	}
	if cfg.Schedule.location, err = time.LoadLocation(cfg.Schedule.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("schedule.timezone: %w", err))
	}
	if _, err = scheduler.ParseWeekdays(cfg.Schedule.Weekdays); err != nil {
		errs = append(errs, fmt.Errorf("schedule.weekdays: %w", err))
	}
	errs = append(errs, cfg.validate()...)

	return cfg, errors.Join(errs...)
}

func (c Configuration) validate() []error {
	var errs []error
	if u, err := url.Parse(c.Attendance.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("attendance.url: invalid url %q", c.Attendance.URL))
	}
	positive := map[string]time.Duration{
		"schedule.pollInterval":  c.Schedule.PollInterval,
		"schedule.probeInterval": c.Schedule.ProbeInterval,
		"probe.timeout":          c.Probe.Timeout,
		"probe.serviceTimeout":   c.Probe.ServiceTimeout,
	}
	if c.Retry.Enabled {
		positive["retry.delay"] = c.Retry.Delay
		positive["retry.timeout"] = c.Retry.Timeout
		if c.Retry.Attempts < 1 {
			errs = append(errs, errors.New("retry.attempts: must be at least 1"))
		}
	}
	for _, key := range slices.Sorted(maps.Keys(positive)) {
		if positive[key] <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be positive", key))
		}
	}
	return errs
}

// stringList reads a list from a YAML sequence or a comma-separated string.
func stringList(v *viper.Viper, key string) []string {
	var values []string
	switch value := v.Get(key).(type) {
	case string:
		values = strings.Split(value, ",")
	default:
		values = v.GetStringSlice(key)
	}
	list := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			list = append(list, value)
		}
	}
	return list
}

// Dump writes the configuration as YAML. The password is redacted.
func (c Configuration) Dump(w io.Writer) error {
	if c.Attendance.Password != "" {
		c.Attendance.Password = "********"
	}
	if c.Slack.Token != "" {
		c.Slack.Token = "********"
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
