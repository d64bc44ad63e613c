package stages

import (
	"context"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/ctxlog"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// libraryFunction is one runtime-support definition. Preconditions become
// checkable assertions at call sites during precondition instrumentation.
type libraryFunction struct {
	name          string
	preconditions []program.Expr
}

// runtimeLibraries holds one independent support library per front-end
// dialect. Only definitions actually called by the program are linked in.
var runtimeLibraries = map[string][]libraryFunction{
	"c": {
		{name: "__rt_alloc", preconditions: []program.Expr{program.Sym{Name: "__rt_alloc$size_ok"}}},
		{name: "__rt_free", preconditions: []program.Expr{program.Sym{Name: "__rt_free$valid_object"}}},
		{name: "__rt_memcpy", preconditions: []program.Expr{program.Sym{Name: "__rt_memcpy$no_overlap"}}},
		{name: "__rt_strlen"},
		{name: "__rt_strcpy", preconditions: []program.Expr{program.Sym{Name: "__rt_strcpy$dest_big_enough"}}},
		{name: "__rt_print"},
	},
	"jvm": {
		{name: "__rtj_new"},
		{name: "__rtj_arraylength", preconditions: []program.Expr{program.Sym{Name: "__rtj_arraylength$not_null"}}},
		{name: "__rtj_throw"},
		{name: "__rtj_monitor_enter", preconditions: []program.Expr{program.Sym{Name: "__rtj_monitor_enter$not_null"}}},
		{name: "__rtj_monitor_exit"},
	},
}

// linkRuntime adds runtime-support definitions for every dialect present in
// the model, then stubs out any remaining undefined call targets so the
// model stays cross-referentially consistent.
func linkRuntime(ctx context.Context, m *program.Model, _ *config.Configuration) error {
	logger := ctxlog.FromContext(ctx)

	called := make(map[string]bool)
	for _, name := range m.FunctionNames() {
		for _, instr := range m.Functions[name].Body {
			if instr.Kind == program.KindCall && !instr.Indirect {
				called[instr.Callee] = true
			}
		}
	}

	linked := 0
	for _, dialect := range m.Dialects {
		for _, lib := range runtimeLibraries[dialect] {
			if !called[lib.name] || m.Functions[lib.name] != nil {
				continue
			}
			m.AddFunction(&program.Function{
				Name:          lib.name,
				Body:          []*program.Instruction{{Kind: program.KindEnd}},
				Preconditions: lib.preconditions,
				Library:       true,
				Dialect:       dialect,
			})
			linked++
		}
	}

	// Remaining undefined targets get nondeterministic stubs.
	stubbed := 0
	for callee := range called {
		if m.Functions[callee] == nil {
			m.AddFunction(&program.Function{
				Name:    callee,
				Body:    []*program.Instruction{{Kind: program.KindEnd}},
				Library: true,
			})
			stubbed++
		}
	}

	logger.Debug("Runtime libraries linked.", "linked", linked, "stubbed", stubbed)
	return nil
}
