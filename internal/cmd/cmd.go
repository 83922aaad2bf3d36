package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/clambin/absensi/internal/app"
	"github.com/clambin/absensi/internal/attendance"
	"github.com/clambin/absensi/internal/configuration"
	"github.com/clambin/absensi/internal/credentials"
	"github.com/clambin/absensi/internal/logsink"
	"github.com/clambin/go-common/charmer"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFilename string
	RootCmd        = cobra.Command{
		Use:          "absensi",
		Short:        "Submits the daily attendance check-in and check-out",
		RunE:         run,
		SilenceUsage: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file")
	if err := charmer.SetPersistentFlags(&RootCmd, viper.GetViper(), configuration.Arguments); err != nil {
		panic("failed to set flags: " + err.Error())
	}
	RootCmd.AddCommand(&configCmd, &probeCmd, &serviceCmd)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "err", err)
	}

	if configFilename != "" {
		viper.SetConfigFile(configFilename)
	} else {
		viper.AddConfigPath("/etc/absensi/")
		viper.AddConfigPath("$HOME/.absensi")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	configuration.SetDefaults(viper.GetViper())

	viper.SetEnvPrefix("ABSENSI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFilename != "" || !errors.As(err, &notFound) {
			slog.Error("failed to read config file", "err", err)
			os.Exit(1)
		}
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := configuration.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	logger, closeLog, err := newLogger(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeLog()

	prompter := credentials.NewPrompter()
	creds, err := prompter.Get(configuredCredentials(cfg))
	if err != nil {
		return fmt.Errorf("credentials: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return runApp(ctx, cfg, creds, prompter.Reader(), logger)
}

func runApp(ctx context.Context, cfg configuration.Configuration, creds attendance.Credentials, stdin io.Reader, logger *slog.Logger) error {
	logger.Info("absensi starting", "version", RootCmd.Version)
	a, err := app.New(cfg, creds, RootCmd.Version, stdin, nil, logger)
	if err != nil {
		return err
	}
	if err = a.Verify(ctx); err != nil {
		return err
	}
	return a.Run(ctx)
}

func configuredCredentials(cfg configuration.Configuration) attendance.Credentials {
	return attendance.Credentials{Username: cfg.Attendance.Username, Password: cfg.Attendance.Password}
}

// newLogger returns the operator logger, writing to console and to the configured log file.
// The returned function closes the log file.
func newLogger(cfg configuration.Configuration, console io.Writer) (*slog.Logger, func(), error) {
	var opts slog.HandlerOptions
	if cfg.Debug {
		opts.Level = slog.LevelDebug
	}
	closeLog := func() {}
	var file io.Writer
	if cfg.Log.File != "" {
		f, err := logsink.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, nil, fmt.Errorf("log: %w", err)
		}
		file = f
		closeLog = func() { _ = f.Close() }
	}
	return slog.New(logsink.New(console, file, &opts)), closeLog, nil
}
