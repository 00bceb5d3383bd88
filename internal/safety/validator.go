package safety

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidPath    = errors.New("invalid path")
	ErrProtectedPath  = errors.New("protected path")
	ErrOutsideAllowed = errors.New("outside operation roots")
	ErrSymlinkEscape  = errors.New("symlink escape detected")
)

// Validator is the single authorization gate for delete targets. Every path
// the deleter touches must pass here first, regardless of what the glob
// resolution produced.
type Validator struct {
	allowedRoots   []string
	protectedPaths []string
}

// NewValidator creates a validator confined to the given operation roots,
// with optional extra protected paths on top of the system defaults.
func NewValidator(roots []string, extraProtected []string) *Validator {
	return &Validator{
		allowedRoots:   normalizeRoots(roots),
		protectedPaths: defaultProtected(extraProtected),
	}
}

// ValidateTarget returns a typed error when deleting path would violate the
// safety contract: protected system paths, paths outside every operation
// root, and symlinks that resolve outside the roots.
func (v *Validator) ValidateTarget(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}
	p, err := filepath.Abs(path)
	if err != nil {
		return ErrInvalidPath
	}
	p = filepath.Clean(p)

	if isProtected(p, v.protectedPaths) {
		return ErrProtectedPath
	}
	if !withinRoots(p, v.allowedRoots) {
		return ErrOutsideAllowed
	}

	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		// A vanished target is the deleter's business, not a safety
		// violation.
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if resolved != p && !withinRoots(filepath.Clean(resolved), v.allowedRoots) {
		return ErrSymlinkEscape
	}
	return nil
}

func withinRoots(path string, roots []string) bool {
	for _, r := range roots {
		if hasPathPrefix(path, r) {
			return true
		}
	}
	return false
}

func isProtected(path string, protected []string) bool {
	if path == string(os.PathSeparator) {
		return true
	}
	for _, prot := range protected {
		if path == prot || hasPathPrefix(path, prot) {
			return true
		}
	}
	return false
}

func hasPathPrefix(path, prefix string) bool {
	if prefix == string(os.PathSeparator) {
		return path == prefix
	}
	return path == prefix || strings.HasPrefix(path, prefix+string(os.PathSeparator))
}

func normalizeRoots(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		if strings.TrimSpace(r) == "" {
			continue
		}
		abs, err := filepath.Abs(r)
		if err != nil {
			continue
		}
		out = append(out, filepath.Clean(abs))
	}
	return out
}

func defaultProtected(extra []string) []string {
	base := []string{
		"/etc",
		"/bin",
		"/usr",
		"/boot",
		"/lib",
		"/lib64",
		"/sbin",
	}
	for _, e := range extra {
		if strings.TrimSpace(e) == "" {
			continue
		}
		base = append(base, filepath.Clean(e))
	}
	return base
}
