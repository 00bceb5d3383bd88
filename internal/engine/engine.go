// Package engine is the externally callable entry point of the sweep core.
// It sequences resolution, deletion, and reporting; nothing else calls the
// inner stages directly.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"glob-sweep/internal/database"
	"glob-sweep/internal/fsops"
	"glob-sweep/internal/limiter"
	"glob-sweep/internal/metrics"
	"glob-sweep/internal/op"
	"glob-sweep/internal/purge"
	"glob-sweep/internal/report"
	"glob-sweep/internal/resolver"
	"glob-sweep/internal/safety"
	"glob-sweep/internal/selector"
)

// Options configures an Engine. Zero values get sensible defaults.
type Options struct {
	Selector    selector.Selector
	Remover     fsops.Remover
	MaxInFlight int
	History     *database.History // nil disables history recording
	Protected   []string          // extra protected paths for the validator
	DryRun      bool
	Logger      zerolog.Logger
}

// Engine runs complete sweep batches. It holds no state across runs.
type Engine struct {
	sel       selector.Selector
	remover   fsops.Remover
	lim       *limiter.Limiter
	history   *database.History
	protected []string
	dryRun    bool
	logger    zerolog.Logger
}

func New(opts Options) *Engine {
	e := &Engine{
		sel:       opts.Selector,
		remover:   opts.Remover,
		lim:       limiter.New(opts.MaxInFlight),
		history:   opts.History,
		protected: opts.Protected,
		dryRun:    opts.DryRun,
		logger:    opts.Logger.With().Str("component", "engine").Logger(),
	}
	if e.sel == nil {
		e.sel = selector.NewGlobSelector(opts.Logger)
	}
	if e.remover == nil {
		e.remover = fsops.OSRemover{}
	}
	return e
}

// Run normalizes ops against root, resolves them to a path set, deletes it,
// and reports the outcome. Errors keep their original type and gain only a
// phase prefix ("resolve" or "delete"). The outcome is valid even on error
// and reflects whatever completed.
func (e *Engine) Run(ctx context.Context, root string, ops []op.Operation) (purge.Outcome, error) {
	start := time.Now()
	metrics.RecordRun()

	normalized := make([]op.Operation, 0, len(ops))
	roots := []string{root}
	for _, o := range ops {
		n, err := o.Normalize(root)
		if err != nil {
			return purge.Outcome{}, fmt.Errorf("resolve: %w", err)
		}
		normalized = append(normalized, n)
		roots = append(roots, n.Root)
	}

	set, err := resolver.Resolve(ctx, e.sel, e.lim, normalized, e.logger)
	if err != nil {
		metrics.ErrorsTotal.Inc()
		return purge.Outcome{}, fmt.Errorf("resolve: %w", err)
	}

	validator := safety.NewValidator(roots, e.protected)
	purger := purge.New(e.remover, e.lim, validator, e.history, e.logger, e.dryRun)

	outcome, err := purger.Purge(ctx, set)
	if err != nil {
		return outcome, fmt.Errorf("delete: %w", err)
	}

	metrics.RunDuration.Observe(time.Since(start).Seconds())

	if summary := report.Summary(outcome); summary != "" {
		e.logger.Info().
			Int("files", outcome.FilesDeleted).
			Int("folders", outcome.FoldersDeleted).
			Bool("dry_run", e.dryRun).
			Msg(summary)
	}
	return outcome, nil
}
