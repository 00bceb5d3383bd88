package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"glob-sweep/internal/exitcodes"
	"glob-sweep/internal/metrics"
	"glob-sweep/internal/scheduler"
)

func newDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run sweep batches on the configured interval",
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

			logger.Info().
				Dur("interval", cfg.Interval()).
				Msg("glob-sweep daemon starting")

			err = scheduler.Run(ctx, cfg, eng, logger)

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			metrics.Shutdown(shutdownCtx, logger)

			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("scheduler failed")
				os.Exit(exitcodes.RuntimeError)
			}
			logger.Info().Msg("glob-sweep daemon stopped")
			return nil
		},
	}
}
