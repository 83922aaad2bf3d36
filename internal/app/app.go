// Package app wires all components together and runs them.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/clambin/absensi/internal/attendance"
	"github.com/clambin/absensi/internal/bot"
	"github.com/clambin/absensi/internal/clock"
	"github.com/clambin/absensi/internal/collector"
	"github.com/clambin/absensi/internal/commands"
	"github.com/clambin/absensi/internal/configuration"
	"github.com/clambin/absensi/internal/deferral"
	"github.com/clambin/absensi/internal/health"
	"github.com/clambin/absensi/internal/listener"
	"github.com/clambin/absensi/internal/notifier"
	"github.com/clambin/absensi/internal/reachability"
	"github.com/clambin/absensi/internal/retry"
	"github.com/clambin/absensi/internal/scheduler"
	"github.com/clambin/absensi/internal/server"
	"github.com/clambin/go-common/slackbot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

type Task interface {
	Run(ctx context.Context) error
}

type App struct {
	Client    *attendance.Client
	Probe     *reachability.Probe
	Deferral  *deferral.Controller
	Commands  *commands.Executor
	Scheduler *scheduler.Scheduler
	Listener  *listener.Listener
	tasks     []Task
	logger    *slog.Logger
}

// New builds the application. Commands are read from stdin if control.stdin is set.
// Metrics are registered with registry, or with the default registry if registry is nil.
func New(cfg configuration.Configuration, creds attendance.Credentials, version string, stdin io.Reader, registry *prometheus.Registry, l *slog.Logger) (*App, error) {
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var metricsHandler = promhttp.Handler()
	if registry != nil {
		registerer = registry
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	a := App{logger: l}

	// Notifications
	notifiers := notifier.Notifiers{&notifier.SLogNotifier{Logger: l.With("component", "notifier")}}
	var slackBot *slackbot.SlackBot
	if cfg.Slack.Token != "" {
		slackBot = slackbot.New(
			cfg.Slack.Token,
			slackbot.WithName("absensi "+version),
			slackbot.WithLogger(l.With(slog.String("component", "slackbot"))),
		)
		notifiers = append(notifiers, &notifier.SlackNotifier{Slack: slackBot, Logger: l.With("component", "notifier")})
	}

	// Attendance client
	requestMetrics := attendance.NewRequestMetrics("absensi", "attendance", prometheus.Labels{"application": "absensi"})
	if err := registerer.Register(requestMetrics); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	client, err := attendance.New(
		cfg.Attendance.URL,
		creds,
		attendance.NewHTTPClient(cfg.Retry.RequestTimeout(), requestMetrics),
		l.With("component", "attendance"),
	)
	if err != nil {
		return nil, fmt.Errorf("attendance: %w", err)
	}
	a.Client = client

	// Shared state
	c := clock.Real{Location: cfg.Schedule.Location()}
	a.Probe = reachability.New(cfg.ProbeTargets(), l.With("component", "probe"))
	a.Deferral = deferral.New(c, notifiers, l.With("component", "deferral"))
	a.Commands = commands.New(a.Deferral, a.Probe, l.With("component", "commands"))

	// Scheduler
	schedule, err := cfg.Schedule.Scheduler()
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	a.Scheduler = scheduler.New(
		client,
		a.Probe,
		a.Deferral,
		notifiers,
		retry.New(cfg.Retry.Policy(), l.With("component", "retry")),
		c,
		schedule,
		l.With("component", "scheduler"),
	)
	a.tasks = append(a.tasks, a.Scheduler)

	// Collector
	coll := &collector.Collector{Publisher: a.Scheduler, Deferral: a.Deferral, Logger: l.With("component", "collector")}
	if err = registerer.Register(coll); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	a.tasks = append(a.tasks, coll)

	// Terminal
	if cfg.Control.Stdin && stdin != nil {
		a.Listener = listener.New(a.Commands, stdin, l.With("component", "listener"))
		a.tasks = append(a.tasks, a.Listener)
	}

	// Slack
	if slackBot != nil {
		a.tasks = append(a.tasks, bot.New(slackBot, a.Commands, l.With("component", "bot")))
	}

	// HTTP API
	if cfg.Control.Addr != "" {
		h := health.New(a.Scheduler, a.Deferral, l.With("component", "health"))
		a.tasks = append(a.tasks, h)
		r := server.NewRouter(server.Options{
			Deferral:       a.Deferral,
			Probe:          a.Probe,
			Health:         h,
			Metrics:        metricsHandler,
			AllowedOrigins: cfg.Control.AllowedOrigins,
		}, l.With("component", "http"))
		a.tasks = append(a.tasks, server.New(cfg.Control.Addr, http.Handler(r), l.With("component", "http")))
	}

	return &a, nil
}

// Verify checks the credentials with one login.
func (a *App) Verify(ctx context.Context) error {
	a.logger.Info("verifying login", "url", a.Client.BaseURL())
	if err := a.Client.Verify(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	a.logger.Info("login successful")
	return nil
}

// Run runs all tasks until ctx is canceled or a task fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("absensi started")
	if a.Listener != nil {
		a.banner()
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, t := range a.tasks {
		g.Go(func() error { return t.Run(ctx) })
	}
	return g.Wait()
}

func (a *App) banner() {
	a.logger.Info("available commands:")
	for _, c := range commands.All {
		a.logger.Info("  - " + c.Name + ": " + c.Help)
	}
}

// Tasks returns the number of tasks Run will start.
func (a *App) Tasks() int {
	return len(a.tasks)
}
