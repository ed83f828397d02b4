package etl

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultBatchSize bounds how many fact rows go into one append call.
const DefaultBatchSize = 50000

// Loader persists build output to a Store. Dimensions use replace semantics
// and are always fully written before any fact batch is appended, so the
// store never sees a fact row ahead of the keys it references.
type Loader struct {
	store       Store
	batchSize   int
	concurrency int
	log         zerolog.Logger
}

// NewLoader creates a loader. batchSize <= 0 selects DefaultBatchSize;
// concurrency <= 1 appends fact batches sequentially.
func NewLoader(store Store, batchSize, concurrency int, log zerolog.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Loader{store: store, batchSize: batchSize, concurrency: concurrency, log: log}
}

// LoadDimensions replaces the three dimension tables with the build output.
func (l *Loader) LoadDimensions(ctx context.Context, dims *Dimensions) error {
	if err := l.store.ReplaceProducts(ctx, dims.Products); err != nil {
		return fmt.Errorf("load dim_product: %w", err)
	}
	if err := l.store.ReplaceCustomers(ctx, dims.Customers); err != nil {
		return fmt.Errorf("load dim_customer: %w", err)
	}
	if err := l.store.ReplaceDates(ctx, dims.Dates); err != nil {
		return fmt.Errorf("load dim_date: %w", err)
	}
	l.log.Info().
		Int("products", len(dims.Products)).
		Int("customers", len(dims.Customers)).
		Int("dates", len(dims.Dates)).
		Msg("dimensions loaded")
	return nil
}

// LoadFacts appends the fact rows in batches of at most batchSize. On
// failure it returns a *PartialLoadError carrying the number of rows from
// fully committed batches; no further batches are submitted after the first
// failure.
func (l *Loader) LoadFacts(ctx context.Context, facts []FactRow) error {
	batches := splitBatches(facts, l.batchSize)
	if l.concurrency > 1 {
		return l.loadFactsConcurrent(ctx, batches)
	}

	committed := 0
	for i, batch := range batches {
		if err := l.store.AppendFacts(ctx, batch); err != nil {
			return &PartialLoadError{
				Table:            "fact_sales",
				BatchesCommitted: i,
				RowsCommitted:    committed,
				Err:              err,
			}
		}
		committed += len(batch)
		l.log.Debug().Int("batch", i+1).Int("rows", committed).Msg("fact batch appended")
	}
	return nil
}

// loadFactsConcurrent dispatches batches to a bounded worker pool. The store
// must support concurrent appends to the same table for this mode. On error
// the committed count covers exactly the batches that succeeded.
func (l *Loader) loadFactsConcurrent(ctx context.Context, batches [][]FactRow) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	work := make(chan []FactRow)

	var (
		wg               sync.WaitGroup
		mu               sync.Mutex
		batchesCommitted int
		rowsCommitted    int
		firstErr         error
	)
	for i := 0; i < l.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range work {
				err := l.store.AppendFacts(ctx, batch)
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
						cancel()
					}
				} else {
					batchesCommitted++
					rowsCommitted += len(batch)
				}
				mu.Unlock()
			}
		}()
	}

	for _, batch := range batches {
		select {
		case work <- batch:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(work)
	wg.Wait()

	if firstErr != nil {
		return &PartialLoadError{
			Table:            "fact_sales",
			BatchesCommitted: batchesCommitted,
			RowsCommitted:    rowsCommitted,
			Err:              firstErr,
		}
	}
	return nil
}

func splitBatches(facts []FactRow, size int) [][]FactRow {
	var batches [][]FactRow
	for start := 0; start < len(facts); start += size {
		end := start + size
		if end > len(facts) {
			end = len(facts)
		}
		batches = append(batches, facts[start:end])
	}
	return batches
}
