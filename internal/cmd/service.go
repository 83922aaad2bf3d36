package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/clambin/absensi/internal/configuration"
	"github.com/clambin/absensi/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serviceCmd = cobra.Command{
	Use:       "service install|uninstall|start|stop|restart|run",
	Short:     "manage absensi as an OS service",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"install", "uninstall", "start", "stop", "restart", "run"},
	RunE:      runService,
}

func runService(_ *cobra.Command, args []string) error {
	cfg, err := configuration.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	// a service has no terminal
	cfg.Control.Stdin = false

	logger, closeLog, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	p := service.NewProgram(func(ctx context.Context) error {
		creds := configuredCredentials(cfg)
		if creds.Username == "" || creds.Password == "" {
			return errors.New("attendance.username and attendance.password must be configured to run as a service")
		}
		return runApp(ctx, cfg, creds, nil, logger)
	}, logger)

	serviceArgs, err := serviceArguments(viper.ConfigFileUsed(), cfg.Log.File)
	if err != nil {
		return err
	}
	s, err := service.New(p, serviceArgs)
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}

	if args[0] == "run" {
		return s.Run()
	}
	return service.Control(s, args[0])
}

// serviceArguments returns the arguments the service manager starts absensi with. Paths are made absolute,
// as the service does not run in the current directory.
func serviceArguments(configFile, logFile string) ([]string, error) {
	args := []string{"service", "run"}
	if configFile != "" {
		path, err := filepath.Abs(configFile)
		if err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		args = append(args, "--config", path)
	}
	if logFile != "" {
		path, err := filepath.Abs(logFile)
		if err != nil {
			return nil, fmt.Errorf("log file: %w", err)
		}
		args = append(args, "--log.file", path)
	}
	return args, nil
}
