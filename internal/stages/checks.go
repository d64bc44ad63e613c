package stages

import (
	"context"
	"fmt"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/ctxlog"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// check binds one toggleable option to the primitive operation it guards and
// the property class of the inserted assertions.
type check struct {
	option      string
	op          string
	class       string
	description string
}

// genericCheckTable is the option-to-check mapping of the richest stage.
// Each entry is independently toggleable; the table order fixes the order of
// inserted assertions at a single instruction.
var genericCheckTable = []check{
	{"bounds-check", "index", "array bounds", "array index within bounds"},
	{"pointer-check", "deref", "pointer dereference", "pointer dereference is safe"},
	{"div-by-zero-check", "div", "division-by-zero", "divisor is nonzero"},
	{"signed-overflow-check", "arith", "overflow", "signed arithmetic does not overflow"},
	{"unsigned-overflow-check", "arith", "unsigned-overflow", "unsigned arithmetic does not wrap"},
	{"undefined-shift-check", "shift", "undefined-shift", "shift distance is in range"},
	{"float-overflow-check", "float", "float-overflow", "floating-point result is finite"},
	{"nan-check", "float", "NaN", "floating-point result is not NaN"},
}

// genericChecks inserts the generic safety assertions selected by the
// configuration, honors the assertions/assumptions switches, and checks
// user-declared error labels for reachability.
func genericChecks(ctx context.Context, m *program.Model, cfg *config.Configuration) error {
	logger := ctxlog.FromContext(ctx)

	var enabled []check
	for _, c := range genericCheckTable {
		if cfg.Bool(c.option) {
			enabled = append(enabled, c)
		}
	}

	errorLabels := cfg.List("error-label")
	inserted := 0

	for _, name := range m.FunctionNames() {
		fn := m.Functions[name]
		counters := make(map[string]int)
		var body []*program.Instruction

		for _, instr := range fn.Body {
			// Disabled user assertions and assumptions degrade to skips.
			if instr.Kind == program.KindAssert && instr.Property != nil &&
				instr.Property.Class == "assertion" && !cfg.Bool("assertions") {
				instr.Kind = program.KindSkip
				instr.Property = nil
				instr.Guard = nil
			}
			if instr.Kind == program.KindAssume && !cfg.Bool("assumptions") {
				instr.Kind = program.KindSkip
				instr.Guard = nil
			}

			for _, c := range enabled {
				if !instr.HasOp(c.op) {
					continue
				}
				counters[c.class]++
				guard := program.Sym{Name: fmt.Sprintf("%s$%s$ok$%d", name, c.option, counters[c.class])}
				body = append(body, &program.Instruction{
					Kind:  program.KindAssert,
					Guard: guard,
					Property: &program.Property{
						Class:       c.class,
						Description: c.description,
						Guard:       guard,
					},
					Labels: instr.Labels,
					Source: instr.Source,
				})
				instr.Labels = nil
				inserted++
			}

			for _, errLabel := range errorLabels {
				if instr.HasLabel(errLabel) {
					body = append(body, &program.Instruction{
						Kind:  program.KindAssert,
						Guard: program.False,
						Property: &program.Property{
							Class:       "error label",
							Description: fmt.Sprintf("label %s unreachable", errLabel),
							Guard:       program.False,
						},
						Source: instr.Source,
					})
					inserted++
				}
			}

			body = append(body, instr)
		}
		fn.Body = body
	}

	logger.Debug("Generic property instrumentation done.", "inserted", inserted)
	return nil
}
