package stages

import (
	"context"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// nondetStatic replaces the initialization of statically-allocated state
// with nondeterministic assignments at the entry point, so the analysis of
// globals is free of under-approximation from fixed initial values.
func nondetStatic(_ context.Context, m *program.Model, _ *config.Configuration) error {
	entryName := m.EntryPoint
	if entryName == "" {
		entryName = "main"
	}
	entry := m.Functions[entryName]
	if entry == nil {
		return nil
	}

	var prologue []*program.Instruction
	for _, symName := range m.Symbols.Names() {
		sym := m.Symbols.Lookup(symName)
		if sym.Kind != program.SymbolStatic {
			continue
		}
		prologue = append(prologue, &program.Instruction{
			Kind: program.KindAssign,
			Name: sym.Name,
			Code: "nondet",
		})
	}
	if len(prologue) > 0 {
		entry.Body = append(prologue, entry.Body...)
	}
	return nil
}
