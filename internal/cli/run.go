package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"glob-sweep/internal/config"
	"glob-sweep/internal/database"
	"glob-sweep/internal/engine"
	"glob-sweep/internal/exitcodes"
	"glob-sweep/internal/logging"
	"glob-sweep/internal/metrics"
	"glob-sweep/internal/report"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one sweep batch and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := setup()

			eng, history, err := buildEngine(cfg, logger)
			if err != nil {
				os.Exit(exitcodes.RuntimeError)
			}
			if history != nil {
				defer history.Close()
			}

			ctx, cancel := signalContext(logger)
			defer cancel()

			outcome, err := eng.Run(ctx, cfg.Root, cfg.ToOperations())
			if err != nil {
				logger.Error().Err(err).Msg("sweep failed")
				os.Exit(exitcodes.RuntimeError)
			}
			if summary := report.Summary(outcome); summary != "" {
				fmt.Fprintln(cmd.OutOrStdout(), summary)
			}
			return nil
		},
	}
}

// setup loads configuration and builds the root logger. Exits with
// InvalidConfig on a bad config file, matching the CLI's exit contract.
func setup() (*config.Config, zerolog.Logger) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitcodes.InvalidConfig)
	}

	level := cfg.Logging.Level
	if flagVerbose {
		level = "debug"
	}
	logger := logging.Setup(level, cfg.Logging.File)

	if flagDryRun {
		cfg.DryRun = true
	}
	if cfg.DryRun {
		logger.Info().Msg("dry run mode: no files will be deleted")
	}
	return cfg, logger
}

func buildEngine(cfg *config.Config, logger zerolog.Logger) (*engine.Engine, *database.History, error) {
	metrics.Init()
	if cfg.Prometheus.Port > 0 {
		metrics.StartServer(cfg.PrometheusAddress(), logger)
	}

	var history *database.History
	if cfg.DatabasePath != "" {
		var err error
		history, err = database.Open(cfg.DatabasePath)
		if err != nil {
			logger.Error().Err(err).Msg("failed to open history database")
			return nil, nil, err
		}
	}

	eng := engine.New(engine.Options{
		MaxInFlight: cfg.MaxInFlight,
		History:     history,
		Protected:   cfg.ProtectedPaths,
		DryRun:      cfg.DryRun,
		Logger:      logger,
	})
	return eng, history, nil
}

func signalContext(logger zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("shutting down gracefully")
		cancel()
	}()
	return ctx, cancel
}
