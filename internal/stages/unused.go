package stages

import (
	"context"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/ctxlog"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// removeUnusedFunctions drops every function unreachable from the entry
// point. It runs after function-pointer removal, so all calls are direct and
// reachability over the call relation is exact.
func removeUnusedFunctions(ctx context.Context, m *program.Model, _ *config.Configuration) error {
	logger := ctxlog.FromContext(ctx)

	entry := m.EntryPoint
	if entry == "" {
		entry = "main"
	}
	if m.Functions[entry] == nil {
		return nil
	}

	reachable := map[string]bool{entry: true}
	worklist := []string{entry}
	for len(worklist) > 0 {
		name := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, instr := range m.Functions[name].Body {
			if instr.Kind == program.KindCall && !instr.Indirect && !reachable[instr.Callee] {
				reachable[instr.Callee] = true
				worklist = append(worklist, instr.Callee)
			}
		}
	}

	removed := 0
	for _, name := range m.FunctionNames() {
		if !reachable[name] {
			m.RemoveFunction(name)
			removed++
		}
	}

	logger.Debug("Unused functions removed.", "removed", removed, "kept", len(m.Functions))
	return nil
}
