package stages

import (
	"context"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// rewriteMMIO lowers memory-mapped I/O primitives to plain assignments over
// device-register symbols, so the checker sees ordinary data flow instead of
// opaque I/O instructions.
func rewriteMMIO(_ context.Context, m *program.Model, _ *config.Configuration) error {
	for _, name := range m.FunctionNames() {
		for _, instr := range m.Functions[name].Body {
			if instr.Kind != program.KindIO {
				continue
			}
			if instr.Name != "" && !m.Symbols.Has(instr.Name) {
				m.Symbols.Add(&program.Symbol{
					Name:     instr.Name,
					Kind:     program.SymbolStatic,
					TypeHint: "device_register",
				})
			}
			instr.Kind = program.KindAssign
			if instr.Code == "" {
				instr.Code = "volatile_access"
			}
		}
	}
	return nil
}
