// Package pipeline runs the ordered, configuration-gated sequence of
// transform stages over the program representation. The stage list is a
// fixed total order; each stage declares the stages it must run after and
// before, and construction statically checks the fixed order against those
// constraints so a reordering mistake is caught before any stage runs.
package pipeline

import (
	"context"
	"fmt"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/ctxlog"
	"github.com/kvasir-mc/kvasir/internal/dag"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// Stage is one named transform over the program representation. When is the
// configuration predicate deciding whether the stage runs; nil means always.
// After and Before declare ordering constraints against other stage names.
// Stages are stateless between invocations within a session.
type Stage struct {
	Name   string
	When   func(cfg *config.Configuration) bool
	After  []string
	Before []string
	Run    func(ctx context.Context, m *program.Model, cfg *config.Configuration) error
}

// StageError is a fatal pipeline failure attributed to one stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Pipeline is a validated, immutable stage sequence.
type Pipeline struct {
	stages []Stage
}

// New validates the stage list and returns a Pipeline. Validation fails on
// duplicate names, constraints referencing unknown stages, cyclic
// constraints, or a declared order that violates a constraint.
func New(stages []Stage) (*Pipeline, error) {
	graph := dag.New()
	order := make([]string, 0, len(stages))
	seen := make(map[string]bool, len(stages))

	for _, stage := range stages {
		if stage.Run == nil {
			return nil, fmt.Errorf("stage %q has no transform function", stage.Name)
		}
		if seen[stage.Name] {
			return nil, fmt.Errorf("duplicate stage name %q", stage.Name)
		}
		seen[stage.Name] = true
		order = append(order, stage.Name)
		graph.AddNode(stage.Name)
	}

	for _, stage := range stages {
		for _, after := range stage.After {
			if err := graph.AddEdge(after, stage.Name); err != nil {
				return nil, fmt.Errorf("stage %q: %w", stage.Name, err)
			}
		}
		for _, before := range stage.Before {
			if err := graph.AddEdge(stage.Name, before); err != nil {
				return nil, fmt.Errorf("stage %q: %w", stage.Name, err)
			}
		}
	}

	if err := graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("stage constraints: %w", err)
	}
	if err := graph.VerifyOrder(order); err != nil {
		return nil, fmt.Errorf("stage order: %w", err)
	}

	return &Pipeline{stages: stages}, nil
}

// StageNames returns the fixed order of stage names.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run applies the configuration-filtered stage sequence to the model. The
// first failing stage aborts the run with a StageError naming it; the model
// must be considered unusable afterwards.
func (p *Pipeline) Run(ctx context.Context, m *program.Model, cfg *config.Configuration) error {
	logger := ctxlog.FromContext(ctx)

	for i := range p.stages {
		stage := &p.stages[i]
		if stage.When != nil && !stage.When(cfg) {
			logger.Debug("Stage skipped by configuration.", "stage", stage.Name)
			continue
		}

		logger.Debug("Running stage.", "stage", stage.Name)
		if err := stage.Run(ctx, m, cfg); err != nil {
			return &StageError{Stage: stage.Name, Err: err}
		}
	}
	return nil
}
