package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nextpaint/paintroom-server/internal/app"
	"github.com/nextpaint/paintroom-server/internal/config"
	"github.com/nextpaint/paintroom-server/internal/log"
)

var (
	configFile string
	overrides  config.Config
)

var rootCmd = &cobra.Command{
	Use:   "paintroom-server",
	Short: "Relays roster, canvas snapshots and strokes between drawing-room participants",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the server",
	Args:  cobra.MaximumNArgs(0),
	RunE:  runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	runCmd.Flags().StringVar(&overrides.Addr, "addr", "", "HTTP listen address")
	runCmd.Flags().StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	runCmd.Flags().DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	runCmd.Flags().DurationVar(&overrides.RoomReapGrace, "room-reap-grace", 0, "how long an empty room survives before reaping")
	runCmd.Flags().DurationVar(&overrides.SnapshotTimeout, "snapshot-timeout", 0, "how long a snapshot source may take to reply")

	rootCmd.AddCommand(runCmd)
}

func runServer(_ *cobra.Command, _ []string) error {
	bootstrap := log.New("info")

	cfg, path, err := config.Load(bootstrap, configFile)
	if err != nil {
		return err
	}
	cfg.UpdateFrom(overrides)

	logger := log.New(cfg.LogLevel)
	logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting paintroom server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, logger)
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
