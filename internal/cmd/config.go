package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/clambin/absensi/internal/configuration"
	"github.com/clambin/absensi/internal/reachability"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configCmd = cobra.Command{
		Use:   "config",
		Short: "show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configuration.Load(viper.GetViper())
			if err != nil {
				return fmt.Errorf("configuration: %w", err)
			}
			return cfg.Dump(cmd.OutOrStdout())
		},
	}

	probeCmd = cobra.Command{
		Use:   "probe",
		Short: "check the network connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configuration.Load(viper.GetViper())
			if err != nil {
				return fmt.Errorf("configuration: %w", err)
			}
			var opts slog.HandlerOptions
			if cfg.Debug {
				opts.Level = slog.LevelDebug
			}
			p := reachability.New(cfg.ProbeTargets(), slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &opts)))
			if !p.IsReachable(cmd.Context()) {
				return errors.New("no network connection")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "network connection ok")
			return err
		},
	}
)
