package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clambin/absensi/internal/attendance"
	"github.com/clambin/absensi/internal/configuration"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, overrides map[string]any) configuration.Configuration {
	t.Helper()
	v := viper.New()
	configuration.SetDefaults(v)
	for key, value := range overrides {
		v.Set(key, value)
	}
	cfg, err := configuration.Load(v)
	require.NoError(t, err)
	return cfg
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name      string
		overrides map[string]any
		tasks     int
		listener  bool
	}{
		{
			name:      "minimal",
			overrides: map[string]any{"control.stdin": false},
			tasks:     2,
		},
		{
			name:     "terminal",
			tasks:    3,
			listener: true,
		},
		{
			name: "everything",
			overrides: map[string]any{
				"control.addr": ":9090",
				"slack.token":  "1234",
			},
			tasks:    6,
			listener: true,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := loadConfig(t, tt.overrides)
			a, err := New(cfg, attendance.Credentials{Username: "budi", Password: "rahasia"}, "test", strings.NewReader(""), prometheus.NewRegistry(), slog.New(slog.DiscardHandler))
			require.NoError(t, err)
			assert.Equal(t, tt.tasks, a.Tasks())
			assert.Equal(t, tt.listener, a.Listener != nil)
		})
	}
}

func TestNew_DuplicateMetrics(t *testing.T) {
	cfg := loadConfig(t, nil)
	r := prometheus.NewRegistry()
	l := slog.New(slog.DiscardHandler)

	_, err := New(cfg, attendance.Credentials{}, "test", nil, r, l)
	require.NoError(t, err)
	_, err = New(cfg, attendance.Credentials{}, "test", nil, r, l)
	assert.ErrorContains(t, err, "metrics")
}

func TestApp_Verify(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("password") != "rahasia" {
			_, _ = w.Write([]byte("login gagal"))
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(ts.Close)
	cfg := loadConfig(t, map[string]any{"attendance.url": ts.URL})

	a, err := New(cfg, attendance.Credentials{Username: "budi", Password: "rahasia"}, "test", nil, prometheus.NewRegistry(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.NoError(t, a.Verify(t.Context()))

	a, err = New(cfg, attendance.Credentials{Username: "budi", Password: "salah"}, "test", nil, prometheus.NewRegistry(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.ErrorIs(t, a.Verify(t.Context()), attendance.ErrLoginFailed)
}

func TestApp_Run(t *testing.T) {
	cfg := loadConfig(t, map[string]any{"probe.targets": "http://127.0.0.1:1"})
	a, err := New(cfg, attendance.Credentials{}, "test", strings.NewReader("help\n"), prometheus.NewRegistry(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.NoError(t, a.Run(ctx))
}
