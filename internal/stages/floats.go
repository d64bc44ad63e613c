package stages

import (
	"context"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// adjustFloatExpressions annotates floating-point assignments with the
// session rounding mode. The generic checks inserted earlier do not know
// about adjusted expressions, which is why this stage runs after them.
func adjustFloatExpressions(_ context.Context, m *program.Model, cfg *config.Configuration) error {
	rounding := cfg.String("rounding")
	if rounding == "" {
		rounding = "to-nearest"
	}

	for _, name := range m.FunctionNames() {
		for _, instr := range m.Functions[name].Body {
			if instr.Kind == program.KindAssign && instr.HasOp("float") {
				instr.Code += " [round:" + rounding + "]"
			}
		}
	}
	return nil
}
