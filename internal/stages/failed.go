package stages

import (
	"context"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// addFailedSymbols registers a failed-dereference placeholder for every data
// symbol. The downstream pointer analysis resolves dangling dereferences to
// these placeholders, so they must exist before it runs.
func addFailedSymbols(_ context.Context, m *program.Model, _ *config.Configuration) error {
	for _, symName := range m.Symbols.Names() {
		sym := m.Symbols.Lookup(symName)
		if sym.Kind != program.SymbolVariable && sym.Kind != program.SymbolStatic {
			continue
		}
		failed := sym.Name + "$failed"
		if !m.Symbols.Has(failed) {
			m.Symbols.Add(&program.Symbol{
				Name:     failed,
				Kind:     program.SymbolFailed,
				TypeHint: sym.TypeHint,
			})
		}
	}
	return nil
}
