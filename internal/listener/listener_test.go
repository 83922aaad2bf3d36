package listener_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/clambin/absensi/internal/commands"
	"github.com/clambin/absensi/internal/listener"
	"github.com/clambin/absensi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	inputs []string
	lock   sync.Mutex
}

func (f *fakeExecutor) Execute(_ context.Context, input string) (commands.Reply, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.inputs = append(f.inputs, input)
	switch strings.TrimSpace(input) {
	case "exit":
		return commands.Reply{Exit: true}, true
	case "panic":
		panic("boom")
	default:
		return commands.Reply{}, true
	}
}

func (f *fakeExecutor) Inputs() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.inputs...)
}

func TestListener_Run(t *testing.T) {
	e := fakeExecutor{}
	var buf testutil.SafeBuffer
	l := listener.New(&e, strings.NewReader("status\npanic\nexit\nhelp\n"), testutil.NewBufferLogger(&buf))
	var codes []int
	l.Exit = func(code int) { codes = append(codes, code) }

	require.NoError(t, l.Run(t.Context()))
	assert.Equal(t, []string{"status", "panic", "exit", "help"}, e.Inputs())
	assert.Equal(t, []int{0}, codes)
	assert.Contains(t, buf.String(), "failed to process command")
	assert.Contains(t, buf.String(), "end of input")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestListener_Run_ReadError(t *testing.T) {
	var buf testutil.SafeBuffer
	l := listener.New(&fakeExecutor{}, failingReader{}, testutil.NewBufferLogger(&buf))
	require.NoError(t, l.Run(t.Context()))
	assert.Contains(t, buf.String(), "read failed")
}

func TestListener_Run_Canceled(t *testing.T) {
	r, w := io.Pipe()
	defer func() { _ = w.Close() }()

	e := fakeExecutor{}
	l := listener.New(&e, r, slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error)
	go func() { errCh <- l.Run(ctx) }()

	_, err := w.Write([]byte("status\n"))
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return len(e.Inputs()) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-errCh)
}
