package stages

import (
	"context"
	"sort"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// updateIndices recomputes the derived indices: the call graph and the loop
// numbering. Loop numbers are assigned per function in body order, so they
// are stable across identical runs.
func updateIndices(_ context.Context, m *program.Model, _ *config.Configuration) error {
	m.CallGraph = computeCallGraph(m)
	m.Loops = computeLoops(m)
	return nil
}

func computeCallGraph(m *program.Model) map[string][]string {
	graph := make(map[string][]string, len(m.Functions))
	for _, name := range m.FunctionNames() {
		seen := make(map[string]bool)
		var callees []string
		for _, instr := range m.Functions[name].Body {
			if instr.Kind == program.KindCall && !instr.Indirect && !seen[instr.Callee] {
				seen[instr.Callee] = true
				callees = append(callees, instr.Callee)
			}
		}
		sort.Strings(callees)
		graph[name] = callees
	}
	return graph
}

// computeLoops finds natural loops as backward gotos: a goto whose target
// label sits at or before the goto itself.
func computeLoops(m *program.Model) []program.Loop {
	var loops []program.Loop
	for _, name := range m.FunctionNames() {
		fn := m.Functions[name]
		number := 0
		for i, instr := range fn.Body {
			if instr.Kind != program.KindGoto {
				continue
			}
			head := fn.LabelIndex(instr.Target)
			if head >= 0 && head <= i {
				loops = append(loops, program.Loop{
					Function: name,
					Number:   number,
					Head:     head,
					Back:     i,
				})
				number++
			}
		}
	}
	return loops
}
