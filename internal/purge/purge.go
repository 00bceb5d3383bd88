package purge

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"glob-sweep/internal/database"
	"glob-sweep/internal/fsops"
	"glob-sweep/internal/limiter"
	"glob-sweep/internal/metrics"
	"glob-sweep/internal/resolver"
	"glob-sweep/internal/safety"
)

// Outcome carries the per-batch deletion counters. In dry-run mode the
// counters report what would have been deleted.
type Outcome struct {
	FilesDeleted   int
	FoldersDeleted int
}

// DeleteError is any deletion failure other than a missing target. It aborts
// the remaining work in its phase.
type DeleteError struct {
	Phase string // "files" or "folders"
	Path  string
	Err   error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete %s (phase %s): %v", e.Path, e.Phase, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

const (
	phaseFiles   = "files"
	phaseFolders = "folders"
)

// Purger removes a resolved path set in two phases: all files first, then
// folders. The file phase must fully complete before any folder is touched,
// otherwise a folder delete can race its own contents and fail "not empty".
type Purger struct {
	remover   fsops.Remover
	lim       *limiter.Limiter
	validator *safety.Validator
	history   *database.History
	logger    zerolog.Logger
	dryRun    bool
}

// New creates a Purger. history may be nil to disable event recording;
// validator may be nil to skip the safety gate (tests only).
func New(remover fsops.Remover, lim *limiter.Limiter, validator *safety.Validator, history *database.History, logger zerolog.Logger, dryRun bool) *Purger {
	return &Purger{
		remover:   remover,
		lim:       lim,
		validator: validator,
		history:   history,
		logger:    logger.With().Str("component", "purge").Logger(),
		dryRun:    dryRun,
	}
}

// Purge deletes everything in set. Missing targets are absorbed; the first
// other failure stops new work in its phase and is returned as *DeleteError.
// The returned Outcome reflects whatever completed before a failure.
func (p *Purger) Purge(ctx context.Context, set *resolver.PathSet) (Outcome, error) {
	var files, folders atomic.Int64

	outcome := func() Outcome {
		return Outcome{
			FilesDeleted:   int(files.Load()),
			FoldersDeleted: int(folders.Load()),
		}
	}

	if err := p.deleteBatch(ctx, phaseFiles, keys(set.Files), &files); err != nil {
		return outcome(), err
	}

	// Folders go deepest-first in depth bands: every folder at one depth
	// finishes before its parents start, so a parent never races the
	// removal of a selected child.
	for _, band := range depthBands(set.Folders) {
		if err := p.deleteBatch(ctx, phaseFolders, band, &folders); err != nil {
			return outcome(), err
		}
	}

	return outcome(), nil
}

func (p *Purger) deleteBatch(ctx context.Context, phase string, paths []string, counter *atomic.Int64) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		if err := p.lim.Acquire(gctx); err != nil {
			// Scheduling stops here; goroutines already running get
			// to finish their syscall.
			break
		}
		path := path
		g.Go(func() error {
			defer p.lim.Release()
			return p.removeOne(phase, path, counter)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// Parent cancellation stops scheduling without an item error; report it
	// so a partial phase is not mistaken for a completed one.
	return ctx.Err()
}

func (p *Purger) removeOne(phase, path string, counter *atomic.Int64) error {
	objectType := "file"
	if phase == phaseFolders {
		objectType = "folder"
	}

	if p.validator != nil {
		if err := p.validator.ValidateTarget(path); err != nil {
			metrics.ErrorsTotal.Inc()
			p.record(database.ActionError, path, objectType, phase, err.Error())
			return &DeleteError{Phase: phase, Path: path, Err: err}
		}
	}

	if p.dryRun {
		p.logger.Info().Str("path", path).Str("type", objectType).Msg("dry run: would delete")
		p.record(database.ActionDryRun, path, objectType, phase, "")
		counter.Add(1)
		return nil
	}

	if err := p.remover.Remove(path); err != nil {
		if os.IsNotExist(err) {
			p.logger.Debug().Str("path", path).Msg("target already absent")
			metrics.MissingTargetsTotal.Inc()
			p.record(database.ActionMissing, path, objectType, phase, "")
			return nil
		}
		metrics.ErrorsTotal.Inc()
		p.record(database.ActionError, path, objectType, phase, err.Error())
		return &DeleteError{Phase: phase, Path: path, Err: err}
	}

	counter.Add(1)
	if phase == phaseFolders {
		metrics.FoldersDeletedTotal.Inc()
	} else {
		metrics.FilesDeletedTotal.Inc()
	}
	p.record(database.ActionDelete, path, objectType, phase, "")
	p.logger.Debug().Str("path", path).Str("type", objectType).Msg("deleted")
	return nil
}

func (p *Purger) record(action, path, objectType, phase, errMsg string) {
	if p.history == nil {
		return
	}
	if err := p.history.RecordDeletion(action, path, objectType, phase, errMsg); err != nil {
		// History is best-effort diagnostics; never fail the batch over it.
		p.logger.Error().Err(err).Str("path", path).Msg("failed to record deletion history")
	}
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

// depthBands groups folder paths by path depth, deepest first.
func depthBands(folders map[string]struct{}) [][]string {
	byDepth := make(map[int][]string)
	for path := range folders {
		d := strings.Count(path, string(os.PathSeparator))
		byDepth[d] = append(byDepth[d], path)
	}

	depths := make([]int, 0, len(byDepth))
	for d := range byDepth {
		depths = append(depths, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(depths)))

	bands := make([][]string, 0, len(depths))
	for _, d := range depths {
		bands = append(bands, byDepth[d])
	}
	return bands
}
