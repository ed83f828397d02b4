package etl

import "fmt"

// IntegrityError reports a fact-builder lookup that missed a dimension map
// entry. It is fatal to the build: it means the dimension builder and the
// fact builder were handed different record snapshots.
type IntegrityError struct {
	Dimension  string
	NaturalKey string
	Record     int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("referential integrity: record %d has no %s dimension entry for natural key %q",
		e.Record, e.Dimension, e.NaturalKey)
}

// PartialLoadError reports a fact load that stopped partway. Rows from the
// committed batches are already in the table. Plain appends are not
// idempotent, so the failed batch must not be blindly retried without first
// checking whether it was partially applied.
type PartialLoadError struct {
	Table            string
	BatchesCommitted int
	RowsCommitted    int
	Err              error
}

func (e *PartialLoadError) Error() string {
	return fmt.Sprintf("partial load of %s: %d batches (%d rows) committed: %v",
		e.Table, e.BatchesCommitted, e.RowsCommitted, e.Err)
}

func (e *PartialLoadError) Unwrap() error { return e.Err }
