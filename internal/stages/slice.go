package stages

import (
	"context"
	"strings"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/ctxlog"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// retainedProperties returns the set of property identifiers the slicers aim
// at: the property option subset when given, otherwise every labeled
// property.
func retainedProperties(m *program.Model, cfg *config.Configuration) map[string]bool {
	retained := make(map[string]bool)
	if subset := cfg.List("property"); len(subset) > 0 {
		for _, id := range subset {
			retained[id] = true
		}
		return retained
	}
	for _, id := range m.PropertyIDs() {
		retained[id] = true
	}
	return retained
}

// propertyFunctions returns the functions containing at least one retained
// property.
func propertyFunctions(m *program.Model, retained map[string]bool) map[string]bool {
	targets := make(map[string]bool)
	for _, name := range m.FunctionNames() {
		for _, instr := range m.Functions[name].Body {
			if instr.Kind == program.KindAssert && instr.Property != nil &&
				retained[instr.Property.ID] {
				targets[name] = true
				break
			}
		}
	}
	return targets
}

// callersOf computes, for every function, the set of functions that call it.
func callersOf(m *program.Model) map[string][]string {
	callers := make(map[string][]string)
	for _, name := range m.FunctionNames() {
		for _, instr := range m.Functions[name].Body {
			if instr.Kind == program.KindCall && !instr.Indirect {
				callers[instr.Callee] = append(callers[instr.Callee], name)
			}
		}
	}
	return callers
}

// reachabilitySlice removes program parts that cannot reach a retained
// property. The forward-backward variant additionally keeps everything
// reachable from the targets; the two variants are mutually exclusive by
// configuration, with the forward-backward one taking priority. Sliced-away
// function bodies collapse to an unreachable assumption; property
// identifiers already assigned are never touched.
func reachabilitySlice(ctx context.Context, m *program.Model, cfg *config.Configuration) error {
	logger := ctxlog.FromContext(ctx)
	forwardBackward := cfg.Bool("reachability-slice-fb")

	retained := retainedProperties(m, cfg)
	keep := propertyFunctions(m, retained)

	// Backward: callers of kept functions can reach a property.
	callers := callersOf(m)
	worklist := make([]string, 0, len(keep))
	for name := range keep {
		worklist = append(worklist, name)
	}
	for len(worklist) > 0 {
		name := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, caller := range callers[name] {
			if !keep[caller] {
				keep[caller] = true
				worklist = append(worklist, caller)
			}
		}
	}

	// Forward: in the fb variant, code reachable from the targets stays as
	// well, so counterexample suffixes survive.
	if forwardBackward {
		for name := range keep {
			worklist = append(worklist, name)
		}
		for len(worklist) > 0 {
			name := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			for _, instr := range m.Functions[name].Body {
				if instr.Kind == program.KindCall && !instr.Indirect && !keep[instr.Callee] {
					keep[instr.Callee] = true
					worklist = append(worklist, instr.Callee)
				}
			}
		}
	}

	entry := m.EntryPoint
	if entry == "" {
		entry = "main"
	}
	keep[entry] = true

	sliced := 0
	for _, name := range m.FunctionNames() {
		fn := m.Functions[name]
		if keep[name] {
			// Non-retained properties in kept functions degrade to
			// assumptions; their instructions stay, their identifiers are
			// simply no longer checked.
			for _, instr := range fn.Body {
				if instr.Kind == program.KindAssert && instr.Property != nil &&
					!retained[instr.Property.ID] {
					instr.Kind = program.KindAssume
					instr.Property = nil
				}
			}
			continue
		}
		fn.Body = []*program.Instruction{
			{Kind: program.KindAssume, Guard: program.False},
			{Kind: program.KindEnd},
		}
		sliced++
	}

	logger.Debug("Reachability slice done.", "forward_backward", forwardBackward, "sliced_functions", sliced)
	return nil
}

// fullSlice removes instructions that cannot affect the retained properties:
// assignments and declarations whose symbol is never mentioned by a guard,
// call or assignment elsewhere in the same function. Conservative and
// deterministic; properties are never removed.
func fullSlice(ctx context.Context, m *program.Model, cfg *config.Configuration) error {
	logger := ctxlog.FromContext(ctx)
	retained := retainedProperties(m, cfg)

	removed := 0
	for _, name := range m.FunctionNames() {
		fn := m.Functions[name]

		mentioned := make(map[string]bool)
		mention := func(text string) {
			for _, field := range strings.FieldsFunc(text, func(r rune) bool {
				return !isIdentRune(r)
			}) {
				mentioned[field] = true
			}
		}
		for _, instr := range fn.Body {
			if instr.Guard != nil {
				mention(instr.Guard.String())
			}
			switch instr.Kind {
			case program.KindAssign:
				mention(instr.Code)
			case program.KindCall:
				mention(instr.Code)
			}
		}

		var body []*program.Instruction
		for _, instr := range fn.Body {
			if instr.Kind == program.KindAssert && instr.Property != nil &&
				!retained[instr.Property.ID] {
				instr.Kind = program.KindAssume
				instr.Property = nil
			}
			switch instr.Kind {
			case program.KindDecl, program.KindAssign:
				if instr.Name != "" && !mentioned[instr.Name] && len(instr.Labels) == 0 {
					removed++
					continue
				}
			}
			body = append(body, instr)
		}
		fn.Body = body
	}

	logger.Debug("Full slice done.", "removed_instructions", removed)
	return nil
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || r == '#' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
