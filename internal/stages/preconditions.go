package stages

import (
	"context"
	"fmt"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// instrumentPreconditions turns the preconditions of library definitions
// into checkable assertions at every direct call site. Runs after linking so
// the library contracts are present.
func instrumentPreconditions(_ context.Context, m *program.Model, _ *config.Configuration) error {
	for _, name := range m.FunctionNames() {
		fn := m.Functions[name]
		var body []*program.Instruction
		for _, instr := range fn.Body {
			if instr.Kind == program.KindCall && !instr.Indirect {
				callee := m.Functions[instr.Callee]
				if callee != nil {
					for _, pre := range callee.Preconditions {
						body = append(body, &program.Instruction{
							Kind:  program.KindAssert,
							Guard: pre,
							Property: &program.Property{
								Class:       "precondition",
								Description: fmt.Sprintf("precondition of %s", instr.Callee),
								Guard:       pre,
							},
							Labels: instr.Labels,
							Source: instr.Source,
						})
						instr.Labels = nil
					}
				}
			}
			body = append(body, instr)
		}
		fn.Body = body
	}
	return nil
}
