// Package testinput turns coverage traces into concrete test vectors. Every
// covered goal yields one test case whose inputs are the nondeterministic
// choices made along the goal's trace.
package testinput

import (
	"fmt"
	"strings"

	"github.com/kvasir-mc/kvasir/internal/program"
	"github.com/kvasir-mc/kvasir/internal/verifier"
)

// TestCase is one generated test: the goal it covers and the input
// assignments that steer execution to it.
type TestCase struct {
	Goal   string
	Inputs []string
}

// Generate derives one test case per trace. Traces without nondeterministic
// assignments still produce a case: the goal is covered unconditionally.
func Generate(traces []*verifier.Trace) []TestCase {
	cases := make([]TestCase, 0, len(traces))
	for _, trace := range traces {
		tc := TestCase{Goal: trace.PropertyID}
		for _, step := range trace.Steps {
			if step.Kind != program.KindAssign && step.Kind != program.KindDecl {
				continue
			}
			if !strings.Contains(step.Detail, "nondet") {
				continue
			}
			tc.Inputs = append(tc.Inputs, step.Detail)
		}
		cases = append(cases, tc)
	}
	return cases
}

// Render writes the test suite in the plain report style.
func Render(cases []TestCase) string {
	var sb strings.Builder
	sb.WriteString("** Test suite:\n")
	for i, tc := range cases {
		fmt.Fprintf(&sb, "Test %d: covers %s\n", i+1, tc.Goal)
		if len(tc.Inputs) == 0 {
			sb.WriteString("  (no inputs)\n")
			continue
		}
		for _, input := range tc.Inputs {
			fmt.Fprintf(&sb, "  %s\n", input)
		}
	}
	fmt.Fprintf(&sb, "** %d tests generated\n", len(cases))
	return sb.String()
}
