// Package commands implements the interactive commands shared by all control channels.
package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/clambin/absensi/internal/deferral"
)

// Deferral is the deferral state the commands operate on.
type Deferral interface {
	Defer() (deferral.State, bool)
	Cancel() bool
	Status() deferral.State
}

type Prober interface {
	IsReachable(ctx context.Context) bool
}

// Reply is the outcome of a command. If Exit is set, the process should terminate.
type Reply struct {
	Lines []string
	Exit  bool
}

// Command is one recognized command.
type Command struct {
	Name string
	Help string
}

// All lists the recognized commands, in the order they are shown by help.
var All = []Command{
	{Name: "tunda", Help: "defer today's attendance"},
	{Name: "batal", Help: "cancel the deferral"},
	{Name: "status", Help: "show the deferral status"},
	{Name: "test", Help: "test the network connection"},
	{Name: "help", Help: "show this list"},
	{Name: "exit", Help: "stop the program"},
}

type Executor struct {
	Deferral Deferral
	Probe    Prober
	logger   *slog.Logger
	handlers map[string]func(context.Context) Reply
}

func New(d Deferral, p Prober, logger *slog.Logger) *Executor {
	e := Executor{
		Deferral: d,
		Probe:    p,
		logger:   logger,
	}
	e.handlers = map[string]func(context.Context) Reply{
		"tunda":  e.onDefer,
		"batal":  e.onCancel,
		"status": e.onStatus,
		"test":   e.onTest,
		"help":   e.onHelp,
		"exit":   e.onExit,
	}
	return &e
}

// Execute runs the command in input. Input is trimmed and matched case-insensitively.
// The boolean is false if input is not a recognized command; the Reply is then empty.
func (e *Executor) Execute(ctx context.Context, input string) (Reply, bool) {
	name := strings.ToLower(strings.TrimSpace(input))
	handler, ok := e.handlers[name]
	if !ok {
		if name != "" {
			e.logger.Debug("ignoring unrecognized input", "input", name)
		}
		return Reply{}, false
	}
	reply := handler(ctx)
	for _, line := range reply.Lines {
		e.logger.Info(line, "command", name)
	}
	return reply, true
}

func (e *Executor) onDefer(_ context.Context) Reply {
	state, changed := e.Deferral.Defer()
	if !changed {
		return Reply{Lines: []string{"attendance for " + state.DateString() + " is already deferred"}}
	}
	return Reply{Lines: []string{
		"attendance for " + state.DateString() + " deferred",
		"type 'status' to see the deferral, or 'batal' to cancel it",
	}}
}

func (e *Executor) onCancel(_ context.Context) Reply {
	if !e.Deferral.Cancel() {
		return Reply{Lines: []string{"no active deferral"}}
	}
	return Reply{Lines: []string{"deferral canceled"}}
}

func (e *Executor) onStatus(_ context.Context) Reply {
	if state := e.Deferral.Status(); state.Active {
		return Reply{Lines: []string{"attendance deferred for " + state.DateString()}}
	}
	return Reply{Lines: []string{"no deferral"}}
}

func (e *Executor) onTest(ctx context.Context) Reply {
	if e.Probe.IsReachable(ctx) {
		return Reply{Lines: []string{"network connection ok"}}
	}
	return Reply{Lines: []string{"no network connection"}}
}

func (e *Executor) onHelp(_ context.Context) Reply {
	lines := make([]string, 0, len(All)+1)
	lines = append(lines, "available commands:")
	for _, c := range All {
		lines = append(lines, "  - "+c.Name+": "+c.Help)
	}
	return Reply{Lines: lines}
}

func (e *Executor) onExit(_ context.Context) Reply {
	return Reply{Lines: []string{"exiting"}, Exit: true}
}
