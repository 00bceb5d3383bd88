package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	first := FilesDeletedTotal
	Init()
	if FilesDeletedTotal != first {
		t.Error("Init replaced registered collectors on second call")
	}
}

func TestCountersAccumulate(t *testing.T) {
	Init()

	before := testutil.ToFloat64(FilesDeletedTotal)
	FilesDeletedTotal.Inc()
	FilesDeletedTotal.Inc()
	if got := testutil.ToFloat64(FilesDeletedTotal); got != before+2 {
		t.Errorf("expected %v, got %v", before+2, got)
	}

	beforeMissing := testutil.ToFloat64(MissingTargetsTotal)
	MissingTargetsTotal.Inc()
	if got := testutil.ToFloat64(MissingTargetsTotal); got != beforeMissing+1 {
		t.Errorf("expected %v, got %v", beforeMissing+1, got)
	}
}

func TestRecordRunSetsTimestamp(t *testing.T) {
	Init()

	RecordRun()
	if got := testutil.ToFloat64(LastRunTimestamp); got <= 0 {
		t.Errorf("last run timestamp not set, got %v", got)
	}
}
