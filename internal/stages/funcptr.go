package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/ctxlog"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// removeFunctionPointers resolves every indirect call to its concrete
// candidate targets. A call with a single candidate becomes a direct call;
// multiple candidates are routed through a generated dispatcher function of
// guarded direct calls. With pointer-check enabled, a pointer-dereference
// assertion guards each resolved call site.
func removeFunctionPointers(ctx context.Context, m *program.Model, cfg *config.Configuration) error {
	logger := ctxlog.FromContext(ctx)
	pointerCheck := cfg.Bool("pointer-check")

	resolved := 0
	for _, name := range m.FunctionNames() {
		fn := m.Functions[name]
		var body []*program.Instruction
		for _, instr := range fn.Body {
			if instr.Kind != program.KindCall || !instr.Indirect {
				body = append(body, instr)
				continue
			}

			candidates := callCandidates(m, instr)
			resolved++

			if pointerCheck {
				body = append(body, &program.Instruction{
					Kind:  program.KindAssert,
					Guard: program.Sym{Name: instr.Callee + "$points_to_candidate"},
					Property: &program.Property{
						Class:       "pointer dereference",
						Description: fmt.Sprintf("function pointer %s points to a candidate", instr.Callee),
						Guard:       program.Sym{Name: instr.Callee + "$points_to_candidate"},
					},
					Labels: instr.Labels,
					Source: instr.Source,
				})
				instr.Labels = nil
			}

			if len(candidates) == 1 {
				instr.Indirect = false
				instr.Callee = candidates[0]
				body = append(body, instr)
				continue
			}

			dispatcher := dispatcherName(fn.Name, instr.Callee)
			if m.Functions[dispatcher] == nil {
				m.AddFunction(buildDispatcher(dispatcher, instr.Callee, candidates))
			}
			instr.Indirect = false
			instr.Callee = dispatcher
			body = append(body, instr)
		}
		fn.Body = body
	}

	logger.Debug("Function pointers removed.", "resolved", resolved)
	return nil
}

// callCandidates returns the concrete targets an indirect call may reach.
// The front end records the candidate set in the instruction; without one,
// every defined non-library function is a candidate.
func callCandidates(m *program.Model, instr *program.Instruction) []string {
	if instr.Code != "" {
		parts := strings.Split(instr.Code, ",")
		var candidates []string
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" && m.Functions[p] != nil {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) > 0 {
			return candidates
		}
	}

	var candidates []string
	for _, name := range m.FunctionNames() {
		if !m.Functions[name].Library {
			candidates = append(candidates, name)
		}
	}
	return candidates
}

func dispatcherName(fn, pointer string) string {
	return fmt.Sprintf("%s$dispatch$%s", fn, pointer)
}

// buildDispatcher generates a function of guarded direct calls, one per
// candidate, falling through to an assumption that the pointer matched one
// of them.
func buildDispatcher(name, pointer string, candidates []string) *program.Function {
	var body []*program.Instruction
	for i, candidate := range candidates {
		skipLabel := fmt.Sprintf("no_match_%d", i)
		body = append(body,
			&program.Instruction{
				Kind:   program.KindGoto,
				Target: skipLabel,
				Guard:  program.Not{X: program.Sym{Name: pointer + "==" + candidate}},
			},
			&program.Instruction{
				Kind:   program.KindCall,
				Callee: candidate,
			},
			&program.Instruction{
				Kind:   program.KindGoto,
				Target: "done",
			},
			&program.Instruction{
				Kind:   program.KindSkip,
				Labels: []string{skipLabel},
			},
		)
	}
	body = append(body, &program.Instruction{
		Kind:   program.KindEnd,
		Labels: []string{"done"},
	})
	return &program.Function{Name: name, Body: body, Library: true}
}
