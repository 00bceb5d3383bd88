package fsops

// Remover abstracts the single-entry delete syscall.
// Enables mocking in tests to prove dry-run never deletes and to script
// missing-target and permission failures.
// Implementations must report "target does not exist" via an error that
// satisfies os.IsNotExist, never by inventing their own sentinel.
type Remover interface {
	Remove(path string) error
}
