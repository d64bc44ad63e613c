package stages

import (
	"context"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// removeAsm replaces inline-assembly instructions with skips. Assembly has
// no meaning to the checker; it must be gone before library linking so the
// linked definitions never see it.
func removeAsm(_ context.Context, m *program.Model, _ *config.Configuration) error {
	for _, name := range m.FunctionNames() {
		for _, instr := range m.Functions[name].Body {
			if instr.Kind == program.KindAsm {
				instr.Kind = program.KindSkip
				instr.Code = ""
				instr.Ops = nil
			}
		}
	}
	return nil
}
