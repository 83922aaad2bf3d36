package credentials_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/clambin/absensi/internal/attendance"
	"github.com/clambin/absensi/internal/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Get(t *testing.T) {
	tests := []struct {
		name       string
		configured attendance.Credentials
		input      string
		want       attendance.Credentials
		wantErr    error
	}{
		{
			name:  "prompt both",
			input: " budi \nrahasia\n",
			want:  attendance.Credentials{Username: "budi", Password: "rahasia"},
		},
		{
			name:       "prompt password",
			configured: attendance.Credentials{Username: "budi"},
			input:      "rahasia",
			want:       attendance.Credentials{Username: "budi", Password: "rahasia"},
		},
		{
			name:       "configured",
			configured: attendance.Credentials{Username: "budi", Password: "rahasia"},
			want:       attendance.Credentials{Username: "budi", Password: "rahasia"},
		},
		{
			name:    "empty username",
			input:   "\nrahasia\n",
			wantErr: credentials.ErrEmpty,
		},
		{
			name:    "no input",
			wantErr: credentials.ErrEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := credentials.NewPrompter()
			p.In = strings.NewReader(tt.input)
			p.Out = &out

			got, err := p.Get(tt.configured)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompter_Get_Terminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close(); _ = w.Close() })
	_, err = w.WriteString("budi\nvisible\n")
	require.NoError(t, err)

	t.Run("hidden", func(t *testing.T) {
		var out bytes.Buffer
		p := credentials.Prompter{
			In:           r,
			Out:          &out,
			IsTerminal:   func(int) bool { return true },
			ReadPassword: func(int) ([]byte, error) { return []byte("rahasia"), nil },
		}
		got, err := p.Get(attendance.Credentials{Username: "budi"})
		require.NoError(t, err)
		assert.Equal(t, "rahasia", got.Password)
		assert.Equal(t, "Password: \n", out.String())
	})

	t.Run("fallback", func(t *testing.T) {
		var out bytes.Buffer
		p := credentials.Prompter{
			In:           r,
			Out:          &out,
			IsTerminal:   func(int) bool { return true },
			ReadPassword: func(int) ([]byte, error) { return nil, errors.New("not a tty") },
		}
		got, err := p.Get(attendance.Credentials{})
		require.NoError(t, err)
		assert.Equal(t, attendance.Credentials{Username: "budi", Password: "visible"}, got)
		assert.Contains(t, out.String(), "cannot hide password input")
	})
}

func TestPrompter_Reader(t *testing.T) {
	var out bytes.Buffer
	p := credentials.NewPrompter()
	p.In = strings.NewReader("budi\nrahasia\ntunda\nstatus\n")
	p.Out = &out

	got, err := p.Get(attendance.Credentials{})
	require.NoError(t, err)
	assert.Equal(t, attendance.Credentials{Username: "budi", Password: "rahasia"}, got)

	remaining, err := io.ReadAll(p.Reader())
	require.NoError(t, err)
	assert.Equal(t, "tunda\nstatus\n", string(remaining))
}
