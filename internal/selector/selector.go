package selector

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"glob-sweep/internal/op"
)

// Entry describes one selected filesystem path.
type Entry struct {
	IsDir bool
}

// Selector expands a normalized delete operation into concrete paths.
// The returned map is keyed by absolute path.
type Selector interface {
	Select(ctx context.Context, o op.Operation) (map[string]Entry, error)
}

// SelectionError reports a malformed include or exclude pattern. It is
// produced before any filesystem access, so a batch with a bad pattern never
// deletes anything.
type SelectionError struct {
	Pattern string
	Err     error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *SelectionError) Unwrap() error { return e.Err }

// GlobSelector walks an operation's root and matches relative paths with
// doublestar semantics ("build/**", "*.log", "{tmp,cache}/**").
type GlobSelector struct {
	logger zerolog.Logger
}

func NewGlobSelector(logger zerolog.Logger) *GlobSelector {
	return &GlobSelector{logger: logger.With().Str("component", "selector").Logger()}
}

// Select walks o.Root and returns every path matching o.Pattern that no
// exclude pattern matches. Directories are included only when
// o.IncludeFolders is set. A root that does not exist yields an empty result;
// only malformed patterns are errors.
func (s *GlobSelector) Select(ctx context.Context, o op.Operation) (map[string]Entry, error) {
	if !doublestar.ValidatePattern(o.Pattern) {
		return nil, &SelectionError{Pattern: o.Pattern, Err: doublestar.ErrBadPattern}
	}
	for _, ex := range o.Exclude {
		if !doublestar.ValidatePattern(ex) {
			return nil, &SelectionError{Pattern: ex, Err: doublestar.ErrBadPattern}
		}
	}

	selected := make(map[string]Entry)
	err := filepath.WalkDir(o.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == o.Root {
				return filepath.SkipAll
			}
			if os.IsPermission(err) {
				s.logger.Warn().Str("path", path).Msg("permission denied, skipping subtree")
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		// The root itself is never a candidate.
		if path == o.Root {
			return nil
		}

		rel, err := filepath.Rel(o.Root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if excluded(rel, o.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !doublestar.MatchUnvalidated(o.Pattern, rel) {
			return nil
		}
		if d.IsDir() && !o.IncludeFolders {
			return nil
		}

		selected[path] = Entry{IsDir: d.IsDir()}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("select %q under %s: %w", o.Pattern, o.Root, err)
	}

	s.logger.Debug().
		Str("root", o.Root).
		Str("pattern", o.Pattern).
		Int("selected", len(selected)).
		Msg("operation resolved")
	return selected, nil
}

// excluded reports whether rel matches any exclude pattern. The caller prunes
// excluded directories with SkipDir, so their subtrees never reach matching.
func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if doublestar.MatchUnvalidated(p, rel) {
			return true
		}
	}
	return false
}
