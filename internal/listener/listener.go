// Package listener reads commands from a line-oriented input, typically the terminal.
package listener

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/clambin/absensi/internal/commands"
)

type Executor interface {
	Execute(ctx context.Context, input string) (commands.Reply, bool)
}

// Listener executes every line read from Input.
//
// Replies are reported by the Executor's logger. An exit command calls Exit, which defaults to os.Exit:
// the process ends immediately, abandoning any in-flight request.
type Listener struct {
	Executor Executor
	Input    io.Reader
	Exit     func(code int)
	logger   *slog.Logger
}

func New(e Executor, input io.Reader, logger *slog.Logger) *Listener {
	return &Listener{
		Executor: e,
		Input:    input,
		Exit:     os.Exit,
		logger:   logger,
	}
}

// Run reads lines until the input ends or ctx is canceled. It never returns an error: losing the
// listener must not stop the scheduler.
func (l *Listener) Run(ctx context.Context) error {
	l.logger.Debug("started")
	defer l.logger.Debug("stopped")

	lines := make(chan string)
	done := make(chan error, 1)
	go l.read(ctx, lines, done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-done:
			if err != nil {
				l.logger.Error("failed to read input. listener stopped", "err", err)
			} else {
				l.logger.Info("end of input. listener stopped")
			}
			return nil
		case line := <-lines:
			l.handle(ctx, line)
		}
	}
}

// read runs until Input ends. Reads from a terminal cannot be interrupted, so on ctx cancellation
// the goroutine stays blocked in Scan until the next line or process exit.
func (l *Listener) read(ctx context.Context, lines chan<- string, done chan<- error) {
	scanner := bufio.NewScanner(l.Input)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	done <- scanner.Err()
}

func (l *Listener) handle(ctx context.Context, line string) {
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("failed to process command", "input", line, "err", err)
		}
	}()
	reply, ok := l.Executor.Execute(ctx, line)
	if ok && reply.Exit {
		l.Exit(0)
	}
}
