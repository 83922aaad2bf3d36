// Package service runs absensi as an OS service (systemd, launchd, Windows service).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/kardianos/service"
)

// StopTimeout is how long Stop waits for the program to return.
const StopTimeout = 10 * time.Second

// Program adapts a context-driven run function to service.Interface.
type Program struct {
	Run    func(ctx context.Context) error
	logger *slog.Logger
	cancel context.CancelFunc
	done   chan error
	lock   sync.Mutex
}

var _ service.Interface = &Program{}

func NewProgram(run func(ctx context.Context) error, logger *slog.Logger) *Program {
	return &Program{Run: run, logger: logger}
}

// Start starts the run function in the background. It must not block.
func (p *Program) Start(_ service.Service) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.cancel != nil {
		return errors.New("already started")
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan error, 1)
	go func() {
		err := p.Run(ctx)
		if err != nil {
			p.logger.Error("service stopped with error", "err", err)
		}
		p.done <- err
	}()
	p.logger.Info("service started")
	return nil
}

// Stop cancels the run function and waits up to StopTimeout for it to return.
func (p *Program) Stop(_ service.Service) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	p.cancel = nil
	select {
	case err := <-p.done:
		p.logger.Info("service stopped")
		return err
	case <-time.After(StopTimeout):
		return errors.New("timeout waiting for service to stop")
	}
}

// Config returns the service definition. The service runs the binary with args.
func Config(args []string) *service.Config {
	return &service.Config{
		Name:        "absensi",
		DisplayName: "Absensi",
		Description: "Submits daily attendance check-in and check-out at randomized times.",
		Arguments:   args,
	}
}

// New creates the service for p.
func New(p *Program, args []string) (service.Service, error) {
	return service.New(p, Config(args))
}

// Control performs a service control action: start, stop, restart, install or uninstall.
func Control(s service.Service, action string) error {
	if !slices.Contains(service.ControlAction[:], action) {
		return fmt.Errorf("invalid action %q. valid actions: %v", action, service.ControlAction)
	}
	return service.Control(s, action)
}
