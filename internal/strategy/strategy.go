package strategy

import (
	"context"
	"fmt"

	"github.com/kvasir-mc/kvasir/internal/program"
	"github.com/kvasir-mc/kvasir/internal/verifier"
)

// Outcome is the result of running a strategy once. It is produced once and
// consumed once by the session controller for the exit-status mapping.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFoundCounterexamples
	OutcomeUnknown
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "VERIFICATION SUCCESSFUL"
	case OutcomeFoundCounterexamples:
		return "VERIFICATION FAILED"
	case OutcomeUnknown:
		return "VERIFICATION INCONCLUSIVE"
	case OutcomeError:
		return "VERIFICATION ERROR"
	default:
		return "INVALID OUTCOME"
	}
}

// Strategy is one verification run: a single blocking invocation returning
// one Outcome, and a report available afterwards.
type Strategy interface {
	Run(ctx context.Context, m *program.Model) Outcome
	Report() string
}

// New instantiates the strategy for a table row. The switch is exhaustive
// over the six valid identifiers.
func New(id ID) (Strategy, error) {
	switch id {
	case StopOnFailSinglePath:
		return &stopOnFail{id: id, checker: verifier.NewSinglePathChecker()}, nil
	case StopOnFailMultiPath:
		return &stopOnFail{id: id, checker: verifier.NewMultiPathChecker()}, nil
	case StopOnFailMultiPathFaultLocalization:
		return &stopOnFail{id: id, checker: verifier.NewMultiPathChecker(), localizeFaults: true}, nil
	case AllPropertiesSinglePathTraceStorage:
		return &allProperties{id: id, checker: verifier.NewSinglePathChecker(), storeTraces: true}, nil
	case AllPropertiesMultiPathTraceStorage:
		return &allProperties{id: id, checker: verifier.NewMultiPathChecker(), storeTraces: true}, nil
	case AllPropertiesMultiPathFaultLocalization:
		return &allProperties{id: id, checker: verifier.NewMultiPathChecker(), localizeFaults: true}, nil
	default:
		return nil, fmt.Errorf("unknown strategy id %d", int(id))
	}
}

// outcomeOf folds per-property verdicts into one Outcome.
func outcomeOf(results []verifier.Result) Outcome {
	outcome := OutcomeSuccess
	for _, r := range results {
		switch r.Verdict {
		case verifier.VerdictFail:
			return OutcomeFoundCounterexamples
		case verifier.VerdictUnknown:
			outcome = OutcomeUnknown
		}
	}
	return outcome
}

// stopOnFail runs the checker until the first violated property and reports
// only what was decided up to that point.
type stopOnFail struct {
	id             ID
	checker        verifier.Checker
	localizeFaults bool
	results        []verifier.Result
}

func (s *stopOnFail) Run(ctx context.Context, m *program.Model) Outcome {
	s.results = s.checker.Check(ctx, m, true)
	return outcomeOf(s.results)
}

func (s *stopOnFail) Report() string {
	return renderReport(s.id, s.results, s.localizeFaults)
}

// allProperties decides every property, storing counterexample traces for
// the failed ones.
type allProperties struct {
	id             ID
	checker        verifier.Checker
	storeTraces    bool
	localizeFaults bool
	results        []verifier.Result
	traces         []*verifier.Trace
}

func (s *allProperties) Run(ctx context.Context, m *program.Model) Outcome {
	s.results = s.checker.Check(ctx, m, false)
	if s.storeTraces {
		for _, r := range s.results {
			if r.Trace != nil {
				s.traces = append(s.traces, r.Trace)
			}
		}
	}
	return outcomeOf(s.results)
}

func (s *allProperties) Report() string {
	return renderReport(s.id, s.results, s.localizeFaults)
}

// Traces returns the stored counterexample traces.
func (s *allProperties) Traces() []*verifier.Trace {
	return s.traces
}
