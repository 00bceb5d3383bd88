package resolver

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"glob-sweep/internal/limiter"
	"glob-sweep/internal/op"
	"glob-sweep/internal/selector"
)

// PathSet holds the deduplicated resolution result of a batch. A path lives
// in exactly one of the two sets, decided by its filesystem type at
// resolution time.
type PathSet struct {
	Files   map[string]struct{}
	Folders map[string]struct{}
}

func NewPathSet() *PathSet {
	return &PathSet{
		Files:   make(map[string]struct{}),
		Folders: make(map[string]struct{}),
	}
}

// Empty reports whether the batch selected nothing.
func (s *PathSet) Empty() bool {
	return len(s.Files) == 0 && len(s.Folders) == 0
}

// Resolve expands every operation through sel and merges the results into one
// PathSet. Selector calls run concurrently under lim; merging happens on a
// single goroutine after all operations complete, so no locking guards the
// sets and membership cannot depend on completion order. The first selector
// error cancels outstanding work and is returned as-is.
func Resolve(ctx context.Context, sel selector.Selector, lim *limiter.Limiter, ops []op.Operation, logger zerolog.Logger) (*PathSet, error) {
	results := make([]map[string]selector.Entry, len(ops))

	g, gctx := errgroup.WithContext(ctx)
	for i, o := range ops {
		if err := lim.Acquire(gctx); err != nil {
			break
		}
		i, o := i, o
		g.Go(func() error {
			defer lim.Release()
			entries, err := sel.Select(gctx, o)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Acquire can fail on parent cancellation without any goroutine erroring;
	// a partially resolved batch must not look like a complete one.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set := NewPathSet()
	for _, entries := range results {
		for path, entry := range entries {
			if entry.IsDir {
				set.Folders[path] = struct{}{}
			} else {
				set.Files[path] = struct{}{}
			}
		}
	}

	logger.Debug().
		Int("operations", len(ops)).
		Int("files", len(set.Files)).
		Int("folders", len(set.Folders)).
		Msg("batch resolved")
	return set, nil
}
