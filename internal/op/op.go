package op

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyPattern = errors.New("operation pattern must not be empty")
	ErrRelativeRoot = errors.New("operation root must resolve to an absolute path")
)

// Operation describes one declarative delete request: everything under Root
// that matches Pattern and none of the Exclude patterns.
// Patterns use forward slashes and may contain ** for arbitrary depth.
type Operation struct {
	Root           string   `yaml:"root" json:"root"`
	Pattern        string   `yaml:"pattern" json:"pattern"`
	Exclude        []string `yaml:"exclude" json:"exclude"`
	IncludeFolders bool     `yaml:"include_folders" json:"include_folders"`
}

// Normalize resolves the operation against baseRoot and returns a copy that
// is safe to hand to a selector. A relative Root is joined onto baseRoot; an
// empty Root means baseRoot itself. Patterns are converted to slash form and
// stripped of a leading "./". The receiver is not modified.
func (o Operation) Normalize(baseRoot string) (Operation, error) {
	if strings.TrimSpace(o.Pattern) == "" {
		return Operation{}, ErrEmptyPattern
	}

	root := o.Root
	switch {
	case root == "":
		root = baseRoot
	case !filepath.IsAbs(root):
		root = filepath.Join(baseRoot, root)
	}
	root = filepath.Clean(root)
	if !filepath.IsAbs(root) {
		return Operation{}, fmt.Errorf("%w: %q", ErrRelativeRoot, o.Root)
	}

	norm := Operation{
		Root:           root,
		Pattern:        cleanPattern(o.Pattern),
		IncludeFolders: o.IncludeFolders,
	}
	for _, ex := range o.Exclude {
		if strings.TrimSpace(ex) == "" {
			continue
		}
		norm.Exclude = append(norm.Exclude, cleanPattern(ex))
	}
	return norm, nil
}

func cleanPattern(p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	p = strings.TrimPrefix(p, "./")
	return strings.TrimSuffix(p, "/")
}
