package etl

import "context"

// Source yields the raw records for one build. Implementations own delimited
// parsing and structurally-malformed-row handling; skipped counts how many
// source rows could not be read into typed records.
type Source interface {
	ReadRecords(ctx context.Context, uri string) (records []RawRecord, skipped int, err error)
}

// Store is the warehouse side of the loader. Replace operations swap the
// full table contents in one logical step, so no partial dimension state is
// ever externally visible. AppendFacts appends a single batch and is not
// idempotent.
type Store interface {
	StageCleanRecords(ctx context.Context, records []CleanRecord) error
	ReplaceProducts(ctx context.Context, rows []ProductDim) error
	ReplaceCustomers(ctx context.Context, rows []CustomerDim) error
	ReplaceDates(ctx context.Context, rows []DateDim) error
	AppendFacts(ctx context.Context, rows []FactRow) error
}

// RunLog records build bookkeeping alongside the warehouse data. FailRun is
// best effort: by the time it is called the build has already failed.
type RunLog interface {
	StartRun(ctx context.Context, sourceURI string) (runID string, err error)
	FinishRun(ctx context.Context, runID string, report BuildReport) error
	FailRun(ctx context.Context, runID string, cause error)
}
