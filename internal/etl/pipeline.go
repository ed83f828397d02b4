package etl

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d: %w", i+1, err)
		}
	}
	return nil
}

// Builder runs a full warehouse build with run bookkeeping. Each run is a
// fresh computation: every surrogate key is reassigned and the dimension
// tables are replaced wholesale.
type Builder struct {
	source Source
	store  Store
	runs   RunLog
	loader *Loader
	log    zerolog.Logger
}

// NewBuilder wires the build collaborators together.
func NewBuilder(source Source, store Store, runs RunLog, loader *Loader, log zerolog.Logger) *Builder {
	return &Builder{source: source, store: store, runs: runs, loader: loader, log: log}
}

// Run executes one full build: read → clean → stage → build dimensions →
// build facts → load dimensions → load facts. Any failure marks the run
// failed and leaves the store in the state of the last completed stage; no
// cross-stage rollback is attempted. The returned report carries whatever
// counts were known when the build stopped.
func (b *Builder) Run(ctx context.Context, sourceURI string) (BuildReport, error) {
	runID, err := b.runs.StartRun(ctx, sourceURI)
	if err != nil {
		return BuildReport{}, fmt.Errorf("start load run: %w", err)
	}

	state := &State{RunID: runID, SourceURI: sourceURI}
	pipeline := NewPipeline(
		&ReadSourceStep{Source: b.source},
		&CleanStep{},
		&StageStep{Store: b.store},
		&BuildDimensionsStep{},
		&BuildFactsStep{},
		&LoadDimensionsStep{Loader: b.loader},
		&LoadFactsStep{Loader: b.loader},
	)

	if err := pipeline.Execute(ctx, state); err != nil {
		b.runs.FailRun(ctx, runID, err)
		return state.Report, err
	}

	if err := b.runs.FinishRun(ctx, runID, state.Report); err != nil {
		return state.Report, fmt.Errorf("finish load run: %w", err)
	}

	b.log.Info().
		Str("run_id", runID).
		Int("facts", state.Report.FactRows).
		Msg("warehouse build completed")
	return state.Report, nil
}
