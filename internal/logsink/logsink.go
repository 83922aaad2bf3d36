// Package logsink provides the slog.Handler that writes the operator log: one line per record,
//
//	[2025-01-07 07:52:13] INFO attendance submitted session=morning response=OK
//
// to the console and to a log file.
package logsink

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"
)

var _ slog.Handler = &Handler{}

type Handler struct {
	text  slog.Handler
	state *state
}

type state struct {
	console io.Writer
	file    io.Writer
	buf     bytes.Buffer
	lock    sync.Mutex
}

// New returns a Handler writing to console and file. Either may be nil.
// Only opts.Level and opts.AddSource are used.
func New(console, file io.Writer, opts *slog.HandlerOptions) *Handler {
	s := state{console: console, file: file}
	textOpts := slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 {
				switch a.Key {
				case slog.TimeKey, slog.LevelKey, slog.MessageKey:
					return slog.Attr{}
				}
			}
			return a
		},
	}
	if opts != nil {
		textOpts.Level = opts.Level
		textOpts.AddSource = opts.AddSource
	}
	return &Handler{
		text:  slog.NewTextHandler(&s.buf, &textOpts),
		state: &s,
	}
}

// OpenFile opens the log file for appending, creating it if needed.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.text.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{text: h.text.WithAttrs(attrs), state: h.state}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{text: h.text.WithGroup(name), state: h.state}
}

// Handle writes the record. A console write error is ignored. If the file write fails, the line is
// written again with all non-ASCII characters replaced, so the record isn't lost to an encoding problem.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	h.state.lock.Lock()
	defer h.state.lock.Unlock()

	h.state.buf.Reset()
	if err := h.text.Handle(ctx, r); err != nil {
		return err
	}
	line := format(r, strings.TrimSpace(h.state.buf.String()))

	if h.state.console != nil {
		_, _ = io.WriteString(h.state.console, line)
	}
	if h.state.file == nil {
		return nil
	}
	_, err := io.WriteString(h.state.file, line)
	if err != nil {
		if _, err2 := io.WriteString(h.state.file, ASCII(line)); err2 != nil {
			return errors.Join(err, err2)
		}
	}
	return nil
}

func format(r slog.Record, attrs string) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(r.Time.Format(time.DateTime))
	b.WriteString("] ")
	b.WriteString(r.Level.String())
	b.WriteString(" ")
	b.WriteString(r.Message)
	if attrs != "" {
		b.WriteString(" ")
		b.WriteString(attrs)
	}
	b.WriteString("\n")
	return b.String()
}

// ASCII replaces every non-ASCII or non-printable character in s, except newlines, with '?'.
func ASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || (r <= unicode.MaxASCII && unicode.IsPrint(r)) {
			return r
		}
		return '?'
	}, s)
}
