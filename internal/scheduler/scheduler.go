package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"glob-sweep/internal/config"
	"glob-sweep/internal/engine"
)

// RunOnce executes a single sweep batch from the configuration.
func RunOnce(ctx context.Context, cfg *config.Config, eng *engine.Engine, logger zerolog.Logger) error {
	if cfg == nil {
		return errors.New("nil config")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	start := time.Now()
	outcome, err := eng.Run(ctx, cfg.Root, cfg.ToOperations())
	if err != nil {
		return err
	}

	logger.Info().
		Int("files", outcome.FilesDeleted).
		Int("folders", outcome.FoldersDeleted).
		Dur("duration", time.Since(start)).
		Msg("cycle complete")
	return nil
}

// Run executes batches on the configured interval until ctx is cancelled.
// A failed cycle is logged and the loop continues; cancellation is returned.
func Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, logger zerolog.Logger) error {
	if cfg == nil {
		return errors.New("nil config")
	}

	if err := RunOnce(ctx, cfg, eng, logger); err != nil {
		logger.Error().Err(err).Msg("cycle failed")
	}

	ticker := time.NewTicker(cfg.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := RunOnce(ctx, cfg, eng, logger); err != nil {
				logger.Error().Err(err).Msg("cycle failed")
			}
		}
	}
}
