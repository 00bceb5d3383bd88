package selector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"glob-sweep/internal/op"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustSelect(t *testing.T, o op.Operation) map[string]Entry {
	t.Helper()
	sel := NewGlobSelector(zerolog.Nop())
	got, err := sel.Select(context.Background(), o)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	return got
}

func TestSelectRecursivePattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "build", "a.txt"))
	writeFile(t, filepath.Join(root, "build", "sub", "b.txt"))
	writeFile(t, filepath.Join(root, "src", "keep.go"))

	got := mustSelect(t, op.Operation{Root: root, Pattern: "build/**", IncludeFolders: true})

	want := map[string]bool{}
	want[filepath.Join(root, "build")] = true
	want[filepath.Join(root, "build", "a.txt")] = false
	want[filepath.Join(root, "build", "sub")] = true
	want[filepath.Join(root, "build", "sub", "b.txt")] = false
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(got), got)
	}
	for path, isDir := range want {
		entry, ok := got[path]
		if !ok {
			t.Errorf("missing %s", path)
			continue
		}
		if entry.IsDir != isDir {
			t.Errorf("%s: IsDir=%v, want %v", path, entry.IsDir, isDir)
		}
	}
}

func TestSelectExcludePrunesSubtree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "build", "a.txt"))
	writeFile(t, filepath.Join(root, "build", "keep", "c.txt"))

	got := mustSelect(t, op.Operation{
		Root:           root,
		Pattern:        "build/**",
		Exclude:        []string{"build/keep"},
		IncludeFolders: true,
	})

	if _, ok := got[filepath.Join(root, "build", "keep")]; ok {
		t.Error("excluded directory was selected")
	}
	if _, ok := got[filepath.Join(root, "build", "keep", "c.txt")]; ok {
		t.Error("child of excluded directory was selected")
	}
	if _, ok := got[filepath.Join(root, "build", "a.txt")]; !ok {
		t.Error("non-excluded file was dropped")
	}
}

func TestSelectFilesOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "build", "a.txt"))

	got := mustSelect(t, op.Operation{Root: root, Pattern: "build/**"})

	if _, ok := got[filepath.Join(root, "build")]; ok {
		t.Error("directory selected despite IncludeFolders=false")
	}
	if _, ok := got[filepath.Join(root, "build", "a.txt")]; !ok {
		t.Error("file missing from selection")
	}
}

func TestSelectMissingRootIsEmpty(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nope")

	got := mustSelect(t, op.Operation{Root: root, Pattern: "**", IncludeFolders: true})
	if len(got) != 0 {
		t.Errorf("expected empty selection, got %v", got)
	}
}

func TestSelectBadPattern(t *testing.T) {
	sel := NewGlobSelector(zerolog.Nop())

	_, err := sel.Select(context.Background(), op.Operation{Root: t.TempDir(), Pattern: "a[b"})
	var selErr *SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("expected *SelectionError, got %v", err)
	}
	if selErr.Pattern != "a[b" {
		t.Errorf("error names wrong pattern: %q", selErr.Pattern)
	}
}

func TestSelectBadExcludePattern(t *testing.T) {
	sel := NewGlobSelector(zerolog.Nop())

	_, err := sel.Select(context.Background(), op.Operation{
		Root:    t.TempDir(),
		Pattern: "**",
		Exclude: []string{"{oops"},
	})
	var selErr *SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("expected *SelectionError, got %v", err)
	}
}
