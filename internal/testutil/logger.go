package testutil

import (
	"bytes"
	"log/slog"
	"sync"
)

// NewBufferLogger returns a text logger writing to buffer, without timestamps so output can be compared.
func NewBufferLogger(buffer *SafeBuffer) *slog.Logger {
	opts := slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}}
	return slog.New(slog.NewTextHandler(buffer, &opts))
}

// SafeBuffer is a bytes.Buffer that may be written and read from different goroutines.
type SafeBuffer struct {
	buf  bytes.Buffer
	lock sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *SafeBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}
