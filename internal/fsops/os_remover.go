package fsops

import "os"

// OSRemover implements Remover using real os package calls.
// os.Remove handles both files and empty directories, which is exactly the
// granularity the two-phase deleter needs; recursive removal is deliberately
// not offered here.
type OSRemover struct{}

func (OSRemover) Remove(path string) error {
	return os.Remove(path)
}
