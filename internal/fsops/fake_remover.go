package fsops

import (
	"os"
	"sync"
)

// FakeRemover implements Remover for testing.
// Records all delete calls without touching the filesystem. Paths listed in
// Missing return a not-exist error; paths in Fail return the scripted error.
// Safe for concurrent use since the deleter fans out across goroutines.
type FakeRemover struct {
	mu      sync.Mutex
	calls   []string
	Missing map[string]bool
	Fail    map[string]error
}

func (f *FakeRemover) Remove(path string) error {
	f.mu.Lock()
	f.calls = append(f.calls, "rm:"+path)
	f.mu.Unlock()

	if f.Missing[path] {
		return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
	}
	if err, ok := f.Fail[path]; ok {
		return &os.PathError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

// Calls returns a snapshot of recorded delete calls.
func (f *FakeRemover) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}
