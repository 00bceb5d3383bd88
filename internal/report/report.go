// Package report turns a deletion outcome into the single human-readable
// summary line the tool prints. It never influences control flow.
package report

import (
	"fmt"

	"glob-sweep/internal/purge"
)

// Summary returns "" when nothing was deleted, otherwise one line such as
// "Deleted 2 files and 1 folder".
func Summary(o purge.Outcome) string {
	if o.FilesDeleted == 0 && o.FoldersDeleted == 0 {
		return ""
	}
	return fmt.Sprintf("Deleted %s and %s",
		pluralize(o.FilesDeleted, "file"),
		pluralize(o.FoldersDeleted, "folder"))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
