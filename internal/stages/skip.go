package stages

import (
	"context"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// removeSkip deletes no-op instructions, migrating their labels onto the
// next instruction so goto targets stay resolvable. It runs twice in the
// pipeline: once before coverage instrumentation so trivial skips are not
// annotated as goals, and once at the end to clean up skips introduced by
// coverage and slicing.
func removeSkip(_ context.Context, m *program.Model, _ *config.Configuration) error {
	for _, name := range m.FunctionNames() {
		fn := m.Functions[name]
		var body []*program.Instruction
		var pending []string
		for _, instr := range fn.Body {
			if instr.Kind == program.KindSkip {
				pending = append(pending, instr.Labels...)
				continue
			}
			if len(pending) > 0 {
				instr.Labels = append(pending, instr.Labels...)
				pending = nil
			}
			body = append(body, instr)
		}
		fn.Body = body
	}
	return nil
}

// removeSkipFinal is the second skip-removal pass. Same transform, distinct
// pipeline identity so ordering constraints against the coverage and slicing
// stages can be declared.
func removeSkipFinal(ctx context.Context, m *program.Model, cfg *config.Configuration) error {
	return removeSkip(ctx, m, cfg)
}
