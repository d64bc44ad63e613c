// Package verifier is the checker boundary of the session: the strategies
// drive a Checker, which decides properties over the program representation
// and produces counterexample traces. The checkers here are naive constant
// evaluators; they implement the same contract a symbolic backend would.
package verifier

import (
	"context"

	"github.com/kvasir-mc/kvasir/internal/program"
)

// Verdict is the per-property decision of a checker.
type Verdict int

const (
	VerdictPass Verdict = iota
	VerdictFail
	VerdictUnknown
)

func (v Verdict) String() string {
	switch v {
	case VerdictPass:
		return "SUCCESS"
	case VerdictFail:
		return "FAILURE"
	case VerdictUnknown:
		return "UNKNOWN"
	default:
		return "INVALID"
	}
}

// TraceStep is one step of a counterexample trace.
type TraceStep struct {
	Function string
	Index    int
	Kind     program.Kind
	Detail   string
	Source   program.Location
}

// Trace is a counterexample witness: the steps from the entry point to the
// violated property.
type Trace struct {
	PropertyID string
	Steps      []TraceStep
}

// Result pairs a property with its verdict and, for failures, a trace.
type Result struct {
	Property *program.Property
	Verdict  Verdict
	Trace    *Trace
}

// Checker decides the properties of a model. StopOnFail makes the checker
// abandon the remaining properties after the first failure.
type Checker interface {
	Name() string
	Check(ctx context.Context, m *program.Model, stopOnFail bool) []Result
}

// Evaluate decides a guard expression statically: constants decide
// themselves, symbols are unknown, negation inverts.
func Evaluate(e program.Expr) Verdict {
	switch x := e.(type) {
	case program.Const:
		if x.Value {
			return VerdictPass
		}
		return VerdictFail
	case program.Sym:
		return VerdictUnknown
	case program.Not:
		switch Evaluate(x.X) {
		case VerdictPass:
			return VerdictFail
		case VerdictFail:
			return VerdictPass
		default:
			return VerdictUnknown
		}
	default:
		return VerdictUnknown
	}
}
