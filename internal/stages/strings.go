package stages

import (
	"context"
	"strings"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// stringInstrumentation inserts bookkeeping assumptions after every call to
// a string-library function, preparing the abstraction transform that runs
// later in the pipeline.
func stringInstrumentation(_ context.Context, m *program.Model, _ *config.Configuration) error {
	for _, name := range m.FunctionNames() {
		fn := m.Functions[name]
		var body []*program.Instruction
		for _, instr := range fn.Body {
			body = append(body, instr)
			if instr.Kind == program.KindCall && !instr.Indirect &&
				strings.HasPrefix(instr.Callee, "__rt_str") {
				body = append(body, &program.Instruction{
					Kind:   program.KindAssume,
					Guard:  program.Sym{Name: instr.Callee + "$zero_terminated"},
					Source: instr.Source,
				})
			}
		}
		fn.Body = body
	}
	return nil
}

// stringAbstraction replaces string-typed declarations with the abstract
// string representation and registers the companion bookkeeping symbols.
// Runs strictly after stringInstrumentation.
func stringAbstraction(_ context.Context, m *program.Model, _ *config.Configuration) error {
	for _, name := range m.FunctionNames() {
		for _, instr := range m.Functions[name].Body {
			if instr.Kind != program.KindDecl || instr.TypeHint != "string" {
				continue
			}
			instr.TypeHint = "abstract_string"
			companion := instr.Name + "#str"
			if !m.Symbols.Has(companion) {
				m.Symbols.Add(&program.Symbol{
					Name:     companion,
					Kind:     program.SymbolVariable,
					TypeHint: "abstract_string",
				})
			}
		}
	}
	for _, symName := range m.Symbols.Names() {
		sym := m.Symbols.Lookup(symName)
		if sym.Kind != program.SymbolFunction && sym.TypeHint == "string" {
			sym.TypeHint = "abstract_string"
		}
	}
	return nil
}
