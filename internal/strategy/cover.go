package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/kvasir-mc/kvasir/internal/program"
	"github.com/kvasir-mc/kvasir/internal/verifier"
)

// CoverGoals is the coverage-mode strategy: it runs the multi-path checker
// over the instrumented goals and stores one trace per covered goal for the
// downstream test-input generator. A coverage goal is an assertion of false,
// so a "failed" verdict means the goal is reachable, i.e. covered.
type CoverGoals struct {
	results []verifier.Result
	traces  []*verifier.Trace
}

// NewCoverGoals returns the coverage strategy.
func NewCoverGoals() *CoverGoals { return &CoverGoals{} }

// Run implements the Strategy contract. Coverage never maps to a
// counterexample outcome: covering all goals is success, leaving goals
// uncovered is inconclusive.
func (s *CoverGoals) Run(ctx context.Context, m *program.Model) Outcome {
	checker := verifier.NewMultiPathChecker()
	s.results = checker.Check(ctx, m, false)

	uncovered := 0
	for _, r := range s.results {
		switch r.Verdict {
		case verifier.VerdictFail:
			if r.Trace != nil {
				s.traces = append(s.traces, r.Trace)
			}
		default:
			uncovered++
		}
	}
	if uncovered > 0 {
		return OutcomeUnknown
	}
	return OutcomeSuccess
}

// Report implements the Strategy contract.
func (s *CoverGoals) Report() string {
	var sb strings.Builder
	sb.WriteString("** Coverage results:\n")
	covered := 0
	for _, r := range s.results {
		status := "UNCOVERED"
		if r.Verdict == verifier.VerdictFail {
			status = "COVERED"
			covered++
		}
		fmt.Fprintf(&sb, "[%s] %s: %s\n", r.Property.ID, r.Property.Description, status)
	}
	fmt.Fprintf(&sb, "** %d of %d covered\n", covered, len(s.results))
	return sb.String()
}

// Traces returns the stored traces of the covered goals.
func (s *CoverGoals) Traces() []*verifier.Trace {
	return s.traces
}
