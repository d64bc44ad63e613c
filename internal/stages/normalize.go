package stages

import (
	"context"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// compositeRewrites maps front-end composite type hints to their normalized
// scalar-sequence forms.
var compositeRewrites = map[string]string{
	"vector":  "array",
	"complex": "pair",
	"union":   "byte_blob",
}

// endLabel is the synthetic label normalization attaches to a function's END
// instruction so rewritten returns have a jump target.
const endLabel = "$end"

// normalizeComposites rewrites multiple-return, vector, complex and union
// constructs into the primitive forms the later stages and the checker
// understand. Returns become an assignment to the function's return-value
// symbol followed by a jump to the end, and self loops become assumptions
// unless that rewriting was disabled.
func normalizeComposites(_ context.Context, m *program.Model, cfg *config.Configuration) error {
	for _, name := range m.FunctionNames() {
		fn := m.Functions[name]

		if cfg.Bool("self-loops-to-assumptions") {
			for i, instr := range fn.Body {
				if instr.Kind != program.KindGoto || fn.LabelIndex(instr.Target) != i {
					continue
				}
				// A self loop never terminates: the path continues only
				// when the loop condition does not hold.
				instr.Kind = program.KindAssume
				if instr.Guard == nil {
					instr.Guard = program.False
				} else {
					instr.Guard = program.Not{X: instr.Guard}
				}
				instr.Target = ""
			}
		}

		hasReturn := false
		for _, instr := range fn.Body {
			if instr.Kind == program.KindReturn {
				hasReturn = true
				break
			}
		}

		if hasReturn {
			retSym := name + "#return_value"
			if !m.Symbols.Has(retSym) {
				m.Symbols.Add(&program.Symbol{Name: retSym, Kind: program.SymbolVariable})
			}

			end := fn.Body[len(fn.Body)-1]
			if !end.HasLabel(endLabel) {
				end.Labels = append(end.Labels, endLabel)
			}

			var body []*program.Instruction
			for _, instr := range fn.Body {
				if instr.Kind != program.KindReturn {
					body = append(body, instr)
					continue
				}
				if instr.Code != "" {
					body = append(body, &program.Instruction{
						Kind:   program.KindAssign,
						Name:   retSym,
						Code:   instr.Code,
						Labels: instr.Labels,
						Source: instr.Source,
					})
					instr.Labels = nil
				}
				body = append(body, &program.Instruction{
					Kind:   program.KindGoto,
					Target: endLabel,
					Labels: instr.Labels,
					Source: instr.Source,
				})
			}
			fn.Body = body
		}

		for _, instr := range fn.Body {
			if rewritten, ok := compositeRewrites[instr.TypeHint]; ok {
				instr.TypeHint = rewritten
			}
		}
	}

	for _, symName := range m.Symbols.Names() {
		sym := m.Symbols.Lookup(symName)
		if rewritten, ok := compositeRewrites[sym.TypeHint]; ok {
			sym.TypeHint = rewritten
		}
	}
	return nil
}
