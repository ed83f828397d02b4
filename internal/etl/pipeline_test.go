package etl

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type mockSource struct {
	records []RawRecord
	skipped int
	err     error
}

func (m *mockSource) ReadRecords(ctx context.Context, uri string) ([]RawRecord, int, error) {
	return m.records, m.skipped, m.err
}

type mockRunLog struct {
	started  []string
	finished []BuildReport
	failed   []error
}

func (m *mockRunLog) StartRun(ctx context.Context, sourceURI string) (string, error) {
	m.started = append(m.started, sourceURI)
	return "run-1", nil
}

func (m *mockRunLog) FinishRun(ctx context.Context, runID string, report BuildReport) error {
	m.finished = append(m.finished, report)
	return nil
}

func (m *mockRunLog) FailRun(ctx context.Context, runID string, cause error) {
	m.failed = append(m.failed, cause)
}

func TestBuilder_Run(t *testing.T) {
	source := &mockSource{records: exampleRaw(t), skipped: 0}
	store := &mockStore{}
	runs := &mockRunLog{}
	loader := NewLoader(store, 1, 1, zerolog.Nop())
	builder := NewBuilder(source, store, runs, loader, zerolog.Nop())

	report, err := builder.Run(context.Background(), "data/data.csv")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := BuildReport{
		RawRows: 3, DroppedRows: 1, CleanRows: 2,
		ProductRows: 2, CustomerRows: 1, DateRows: 1, FactRows: 2,
	}
	if report != want {
		t.Errorf("report = %+v, want %+v", report, want)
	}

	if len(runs.finished) != 1 || runs.finished[0] != want {
		t.Errorf("run log finished = %+v, want one entry %+v", runs.finished, want)
	}
	if len(runs.failed) != 0 {
		t.Errorf("unexpected failed runs: %v", runs.failed)
	}

	// Staging happens before any dimension replace, and every dimension
	// replace happens before the first fact append.
	firstAppend := indexOf(store.ops, "append_facts")
	if firstAppend < 0 {
		t.Fatal("no fact batches appended")
	}
	for _, op := range []string{"stage", "replace_products", "replace_customers", "replace_dates"} {
		idx := indexOf(store.ops, op)
		if idx < 0 || idx > firstAppend {
			t.Errorf("op %q at index %d, want before first append at %d (ops: %v)", op, idx, firstAppend, store.ops)
		}
	}

	// Batch size 1: one append per fact row.
	if len(store.appends) != 2 {
		t.Errorf("got %d fact batches, want 2", len(store.appends))
	}
}

func TestBuilder_Run_LoadFailureMarksRunFailed(t *testing.T) {
	source := &mockSource{records: exampleRaw(t)}
	store := &mockStore{failOnBatch: 2}
	runs := &mockRunLog{}
	loader := NewLoader(store, 1, 1, zerolog.Nop())
	builder := NewBuilder(source, store, runs, loader, zerolog.Nop())

	report, err := builder.Run(context.Background(), "data/data.csv")
	if err == nil {
		t.Fatal("expected the build to fail")
	}

	var partial *PartialLoadError
	if !errors.As(err, &partial) {
		t.Fatalf("error = %T, want *PartialLoadError", err)
	}
	if partial.RowsCommitted != 1 {
		t.Errorf("rows committed = %d, want 1", partial.RowsCommitted)
	}

	if len(runs.failed) != 1 {
		t.Fatalf("failed runs = %d, want 1", len(runs.failed))
	}
	if len(runs.finished) != 0 {
		t.Error("a failed build must not finish its run")
	}

	// The report still carries the counts known when the build stopped.
	if report.FactRows != 2 || report.CleanRows != 2 {
		t.Errorf("report = %+v, want fact/clean counts preserved", report)
	}
}

func TestBuilder_Run_SourceFailureMarksRunFailed(t *testing.T) {
	source := &mockSource{err: errors.New("bucket gone")}
	store := &mockStore{}
	runs := &mockRunLog{}
	loader := NewLoader(store, 1, 1, zerolog.Nop())
	builder := NewBuilder(source, store, runs, loader, zerolog.Nop())

	if _, err := builder.Run(context.Background(), "gs://bucket/data.csv"); err == nil {
		t.Fatal("expected the build to fail")
	}
	if len(store.ops) != 0 {
		t.Errorf("no store operation may run after a source failure, got %v", store.ops)
	}
	if len(runs.failed) != 1 {
		t.Errorf("failed runs = %d, want 1", len(runs.failed))
	}
}

func indexOf(ops []string, op string) int {
	for i, o := range ops {
		if o == op {
			return i
		}
	}
	return -1
}
