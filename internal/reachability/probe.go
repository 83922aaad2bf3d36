// Package reachability checks whether the network is usable before the scheduler commits to a day's run.
package reachability

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Target is an endpoint to probe and how long to wait for it.
type Target struct {
	URL     string
	Timeout time.Duration
}

// DefaultTargets are two public DNS resolvers' HTTPS endpoints. Callers append the service's own base URL.
var DefaultTargets = []Target{
	{URL: "https://8.8.8.8", Timeout: 5 * time.Second},
	{URL: "https://1.1.1.1", Timeout: 5 * time.Second},
}

type Probe struct {
	HTTPClient *http.Client
	Targets    []Target
	logger     *slog.Logger
}

func New(targets []Target, logger *slog.Logger) *Probe {
	return &Probe{
		HTTPClient: http.DefaultClient,
		Targets:    targets,
		logger:     logger,
	}
}

// IsReachable tries each target in order and returns true on the first one that answers, whatever its status code.
func (p *Probe) IsReachable(ctx context.Context) bool {
	for _, target := range p.Targets {
		err := p.try(ctx, target)
		if err == nil {
			p.logger.Debug("target reachable", "url", target.URL)
			return true
		}
		p.logger.Debug("target not reachable", "url", target.URL, "err", err)
		if ctx.Err() != nil {
			break
		}
	}
	return false
}

func (p *Probe) try(ctx context.Context, target Target) error {
	if target.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, target.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return err
	}
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp.Body.Close()
}
