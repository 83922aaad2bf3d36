package retry_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/clambin/absensi/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecutor(attempts int) (*retry.Executor, *[]time.Duration) {
	var sleeps []time.Duration
	e := retry.New(retry.Policy{MaxAttempts: attempts, Delay: 30 * time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.Sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return e, &sleeps
}

func TestDo(t *testing.T) {
	tests := []struct {
		name       string
		attempts   int
		failures   int
		err        error
		wantErr    error
		wantCalls  int
		wantSleeps int
	}{
		{name: "first attempt", attempts: 3, failures: 0, wantCalls: 1, wantSleeps: 0},
		{name: "last attempt", attempts: 5, failures: 4, err: syscall.ECONNREFUSED, wantCalls: 5, wantSleeps: 4},
		{name: "exhausted", attempts: 4, failures: 100, err: errors.New("bad json"), wantErr: retry.ErrExhausted, wantCalls: 4, wantSleeps: 3},
		{name: "single attempt", attempts: 1, failures: 100, err: errors.New("boom"), wantErr: retry.ErrExhausted, wantCalls: 1, wantSleeps: 0},
		{name: "permanent", attempts: 10, failures: 100, err: retry.Permanent(errors.New("login rejected")), wantCalls: 1, wantSleeps: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, sleeps := newExecutor(tt.attempts)

			var calls int
			result, err := retry.Do(context.Background(), e, "op", func(_ context.Context) (string, error) {
				calls++
				if calls <= tt.failures {
					return "", tt.err
				}
				return "ok", nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			assert.Len(t, *sleeps, tt.wantSleeps)
			for _, d := range *sleeps {
				assert.Equal(t, 30*time.Second, d)
			}

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, tt.err)
				assert.Equal(t, tt.attempts, retry.Attempts(err))
				assert.Empty(t, result)
			case retry.IsPermanent(tt.err):
				assert.True(t, retry.IsPermanent(err))
				assert.Empty(t, result)
			default:
				require.NoError(t, err)
				assert.Equal(t, "ok", result)
			}
		})
	}
}

func TestDo_Canceled(t *testing.T) {
	e, _ := newExecutor(10)
	ctx, cancel := context.WithCancel(context.Background())
	e.Sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	var calls int
	_, err := retry.Do(ctx, e, "op", func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want retry.Class
	}{
		{name: "dns", err: &net.OpError{Op: "dial", Err: &net.DNSError{Err: "no such host", Name: "example.invalid"}}, want: retry.NetworkResolve},
		{name: "refused", err: fmt.Errorf("post: %w", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}), want: retry.NetworkRefused},
		{name: "timeout", err: timeoutError{}, want: retry.NetworkTimeout},
		{name: "deadline", err: fmt.Errorf("get: %w", context.DeadlineExceeded), want: retry.NetworkTimeout},
		{name: "unexpected", err: errors.New("invalid character 'x'"), want: retry.Unexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retry.Classify(tt.err))
			assert.Equal(t, tt.want != retry.Unexpected, tt.want.IsNetwork())
			assert.NotEmpty(t, tt.want.String())
		})
	}
}
