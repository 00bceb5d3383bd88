package report

import (
	"testing"

	"glob-sweep/internal/purge"
)

func TestSummary(t *testing.T) {
	cases := []struct {
		name    string
		outcome purge.Outcome
		want    string
	}{
		{"nothing deleted", purge.Outcome{}, ""},
		{"files and folder", purge.Outcome{FilesDeleted: 2, FoldersDeleted: 1}, "Deleted 2 files and 1 folder"},
		{"single file", purge.Outcome{FilesDeleted: 1}, "Deleted 1 file and 0 folders"},
		{"single folder", purge.Outcome{FoldersDeleted: 1}, "Deleted 0 files and 1 folder"},
		{"both plural", purge.Outcome{FilesDeleted: 10, FoldersDeleted: 3}, "Deleted 10 files and 3 folders"},
		{"both singular", purge.Outcome{FilesDeleted: 1, FoldersDeleted: 1}, "Deleted 1 file and 1 folder"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Summary(tc.outcome); got != tc.want {
				t.Errorf("Summary(%+v) = %q, want %q", tc.outcome, got, tc.want)
			}
		})
	}
}
