package etl

import (
	"context"

	"github.com/dvloznov/retail-warehouse/internal/logger"
)

// Step is a single stage of the build pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State is the shared state threaded through the pipeline steps. Clean is
// materialized once and read by both the dimension and the fact builder; the
// fact builder never re-reads the source, which is what keeps its key
// lookups consistent with the dimension maps.
type State struct {
	RunID     string
	SourceURI string

	Raw     []RawRecord
	Clean   []CleanRecord
	Dropped int

	Dims  *Dimensions
	Facts []FactRow

	Report BuildReport
}

// ReadSourceStep reads the raw records from the source URI.
type ReadSourceStep struct {
	Source Source
}

func (s *ReadSourceStep) Execute(ctx context.Context, state *State) error {
	records, skipped, err := s.Source.ReadRecords(ctx, state.SourceURI)
	if err != nil {
		return err
	}
	state.Raw = records
	state.Report.RawRows = len(records)
	log := logger.FromContext(ctx)
	log.Info().Int("rows", len(records)).Int("skipped", skipped).Str("source", state.SourceURI).Msg("source read")
	return nil
}

// CleanStep filters and normalizes the raw records.
type CleanStep struct{}

func (s *CleanStep) Execute(ctx context.Context, state *State) error {
	state.Clean, state.Dropped = Clean(state.Raw)
	state.Report.DroppedRows = state.Dropped
	state.Report.CleanRows = len(state.Clean)
	log := logger.FromContext(ctx)
	log.Info().Int("clean", len(state.Clean)).Int("dropped", state.Dropped).Msg("records cleaned")
	return nil
}

// StageStep replaces the staging table with the cleaned records.
type StageStep struct {
	Store Store
}

func (s *StageStep) Execute(ctx context.Context, state *State) error {
	return s.Store.StageCleanRecords(ctx, state.Clean)
}

// BuildDimensionsStep derives the three dimensions from the cleaned records.
type BuildDimensionsStep struct{}

func (s *BuildDimensionsStep) Execute(ctx context.Context, state *State) error {
	state.Dims = BuildDimensions(state.Clean)
	state.Report.ProductRows = len(state.Dims.Products)
	state.Report.CustomerRows = len(state.Dims.Customers)
	state.Report.DateRows = len(state.Dims.Dates)
	return nil
}

// BuildFactsStep joins the cleaned records against the dimension key maps.
type BuildFactsStep struct{}

func (s *BuildFactsStep) Execute(ctx context.Context, state *State) error {
	facts, err := BuildFacts(state.Clean, state.Dims)
	if err != nil {
		return err
	}
	state.Facts = facts
	state.Report.FactRows = len(facts)
	return nil
}

// LoadDimensionsStep persists the three dimension tables.
type LoadDimensionsStep struct {
	Loader *Loader
}

func (s *LoadDimensionsStep) Execute(ctx context.Context, state *State) error {
	return s.Loader.LoadDimensions(ctx, state.Dims)
}

// LoadFactsStep appends the fact rows in batches. It only runs once all
// dimension tables are persisted.
type LoadFactsStep struct {
	Loader *Loader
}

func (s *LoadFactsStep) Execute(ctx context.Context, state *State) error {
	return s.Loader.LoadFacts(ctx, state.Facts)
}
