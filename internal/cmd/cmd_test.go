package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/clambin/absensi/internal/configuration"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd(t *testing.T) {
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"config", "--attendance.username", "budi", "--attendance.password", "rahasia"})
	t.Cleanup(func() { RootCmd.SetOut(nil); RootCmd.SetArgs(nil) })

	require.NoError(t, RootCmd.Execute())
	assert.Contains(t, out.String(), "username: budi")
	assert.NotContains(t, out.String(), "rahasia")
}

func TestNewLogger(t *testing.T) {
	v := viper.New()
	configuration.SetDefaults(v)
	v.Set("log.file", filepath.Join(t.TempDir(), "absensi.log"))
	cfg, err := configuration.Load(v)
	require.NoError(t, err)

	var console bytes.Buffer
	logger, closeLog, err := newLogger(cfg, &console)
	require.NoError(t, err)
	logger.Info("attendance submitted", "session", "morning")
	logger.Debug("not logged")
	closeLog()

	content, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Equal(t, console.String(), string(content))
	assert.Contains(t, string(content), "INFO attendance submitted session=morning")
	assert.NotContains(t, string(content), "not logged")
}

func TestNewLogger_InvalidFile(t *testing.T) {
	cfg := configuration.Configuration{Log: configuration.LogConfiguration{File: filepath.Join(t.TempDir(), "missing", "absensi.log")}}
	_, _, err := newLogger(cfg, nil)
	assert.Error(t, err)
}

func TestServiceArguments(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	args, err := serviceArguments("config.yaml", "absensi_log.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"service", "run",
		"--config", filepath.Join(wd, "config.yaml"),
		"--log.file", filepath.Join(wd, "absensi_log.txt"),
	}, args)

	args, err = serviceArguments("", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"service", "run"}, args)
}
