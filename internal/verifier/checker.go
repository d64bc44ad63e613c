package verifier

import (
	"context"

	"github.com/kvasir-mc/kvasir/internal/ctxlog"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// MultiPathChecker decides every property over the merged multi-path
// representation in a single pass: functions in sorted order, instructions
// in body order.
type MultiPathChecker struct{}

// NewMultiPathChecker returns a multi-path checker.
func NewMultiPathChecker() *MultiPathChecker { return &MultiPathChecker{} }

func (*MultiPathChecker) Name() string { return "multi-path" }

// Check implements the Checker contract.
func (c *MultiPathChecker) Check(ctx context.Context, m *program.Model, stopOnFail bool) []Result {
	logger := ctxlog.FromContext(ctx)
	var results []Result

	for _, name := range m.FunctionNames() {
		fn := m.Functions[name]
		for i, instr := range fn.Body {
			if instr.Kind != program.KindAssert || instr.Property == nil {
				continue
			}
			verdict := Evaluate(instr.Property.Guard)
			result := Result{Property: instr.Property, Verdict: verdict}
			if verdict == VerdictFail {
				result.Trace = buildTrace(m, name, i)
			}
			results = append(results, result)
			if verdict == VerdictFail && stopOnFail {
				logger.Debug("Stopping at first failed property.", "property", instr.Property.ID)
				return results
			}
		}
	}
	return results
}

// SinglePathChecker explores one execution path at a time from the entry
// point, deciding the properties it encounters in path order. Properties in
// functions unreachable from the entry are reported unknown at the end.
type SinglePathChecker struct{}

// NewSinglePathChecker returns a single-path checker.
func NewSinglePathChecker() *SinglePathChecker { return &SinglePathChecker{} }

func (*SinglePathChecker) Name() string { return "single-path" }

// Check implements the Checker contract.
func (c *SinglePathChecker) Check(ctx context.Context, m *program.Model, stopOnFail bool) []Result {
	logger := ctxlog.FromContext(ctx)

	entry := m.EntryPoint
	if entry == "" {
		entry = "main"
	}

	var results []Result
	decided := make(map[*program.Property]bool)

	// Walk the call tree depth-first, one linear path per function body.
	// Backward gotos are not followed; the path semantics of the naive
	// checker is loop-free.
	var walk func(name string) bool
	visiting := make(map[string]bool)
	walk = func(name string) bool {
		fn := m.Functions[name]
		if fn == nil || visiting[name] {
			return true
		}
		visiting[name] = true
		defer delete(visiting, name)

		for i, instr := range fn.Body {
			switch instr.Kind {
			case program.KindAssert:
				if instr.Property == nil || decided[instr.Property] {
					continue
				}
				decided[instr.Property] = true
				verdict := Evaluate(instr.Property.Guard)
				result := Result{Property: instr.Property, Verdict: verdict}
				if verdict == VerdictFail {
					result.Trace = buildTrace(m, name, i)
				}
				results = append(results, result)
				if verdict == VerdictFail && stopOnFail {
					logger.Debug("Stopping at first failed property.", "property", instr.Property.ID)
					return false
				}
			case program.KindCall:
				if !instr.Indirect {
					if !walk(instr.Callee) {
						return false
					}
				}
			}
		}
		return true
	}

	finished := walk(entry)

	if finished {
		for _, p := range m.Properties() {
			if !decided[p] {
				results = append(results, Result{Property: p, Verdict: VerdictUnknown})
			}
		}
	}
	return results
}

// buildTrace reconstructs a witness: the call chain from the entry point to
// the failing function, then that function's body up to the violated
// assertion.
func buildTrace(m *program.Model, target string, failIndex int) *Trace {
	trace := &Trace{}

	chain := callChain(m, target)
	for _, step := range chain {
		trace.Steps = append(trace.Steps, step)
	}

	fn := m.Functions[target]
	for i := 0; i <= failIndex && i < len(fn.Body); i++ {
		instr := fn.Body[i]
		switch instr.Kind {
		case program.KindAssign, program.KindDecl, program.KindAssume, program.KindAssert, program.KindCall:
			detail := instr.Code
			if detail == "" && instr.Guard != nil {
				detail = instr.Guard.String()
			}
			if instr.Kind == program.KindCall {
				detail = instr.Callee
			}
			trace.Steps = append(trace.Steps, TraceStep{
				Function: target,
				Index:    i,
				Kind:     instr.Kind,
				Detail:   detail,
				Source:   instr.Source,
			})
		}
	}
	if instr := fn.Body[failIndex]; instr.Property != nil {
		trace.PropertyID = instr.Property.ID
	}
	return trace
}

// callChain finds a call path from the entry point to target with a
// depth-first search over direct calls. Functions in sorted order keep the
// result deterministic.
func callChain(m *program.Model, target string) []TraceStep {
	entry := m.EntryPoint
	if entry == "" {
		entry = "main"
	}
	if entry == target || m.Functions[entry] == nil {
		return nil
	}

	visited := make(map[string]bool)
	var search func(name string) []TraceStep
	search = func(name string) []TraceStep {
		if visited[name] {
			return nil
		}
		visited[name] = true
		for i, instr := range m.Functions[name].Body {
			if instr.Kind != program.KindCall || instr.Indirect {
				continue
			}
			step := TraceStep{
				Function: name,
				Index:    i,
				Kind:     program.KindCall,
				Detail:   instr.Callee,
				Source:   instr.Source,
			}
			if instr.Callee == target {
				return []TraceStep{step}
			}
			if m.Functions[instr.Callee] != nil {
				if rest := search(instr.Callee); rest != nil {
					return append([]TraceStep{step}, rest...)
				}
			}
		}
		return nil
	}
	return search(entry)
}
