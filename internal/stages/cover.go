package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/ctxlog"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// knownCriteria is the closed set of coverage criteria. Parsing an unknown
// criterion is the only fatal failure the pipeline can produce.
var knownCriteria = map[string]bool{
	"assertion": true,
	"location":  true,
	"branch":    true,
	"condition": true,
	"decision":  true,
	"mcdc":      true,
	"path":      true,
	"cover":     true,
}

// parseCriterion validates the cover option value.
func parseCriterion(spec string) (string, error) {
	criterion := strings.TrimSpace(spec)
	if criterion == "" {
		return "", fmt.Errorf("no coverage criterion given")
	}
	if !knownCriteria[criterion] {
		return "", fmt.Errorf("unknown coverage criterion %q", criterion)
	}
	return criterion, nil
}

// instrumentCoverGoals replaces property checking with coverage goals
// against the named criterion: existing assertions degrade to assumptions,
// and a goal property (an assertion of false, "failing" means covered) is
// inserted per goal site. Unknown criteria fail the stage, which is fatal to
// the session.
func instrumentCoverGoals(ctx context.Context, m *program.Model, cfg *config.Configuration) error {
	logger := ctxlog.FromContext(ctx)

	criterion, err := parseCriterion(cfg.String("cover"))
	if err != nil {
		return err
	}

	goals := 0
	for _, name := range m.FunctionNames() {
		fn := m.Functions[name]
		if fn.Library {
			continue
		}

		goal := func(desc string, at *program.Instruction) *program.Instruction {
			goals++
			return &program.Instruction{
				Kind:  program.KindAssert,
				Guard: program.False,
				Property: &program.Property{
					Class:       "coverage",
					Description: desc,
					Guard:       program.False,
				},
				Source: at.Source,
			}
		}

		var body []*program.Instruction
		block := 0
		for _, instr := range fn.Body {
			switch criterion {
			case "assertion":
				if instr.Kind == program.KindAssert && instr.Property != nil &&
					instr.Property.Class != "coverage" {
					body = append(body, goal(fmt.Sprintf("assertion at %s reachable", instr.Source), instr))
				}
			case "location", "cover":
				if len(instr.Labels) > 0 || len(body) == 0 {
					block++
					body = append(body, goal(fmt.Sprintf("block %d covered", block), instr))
				}
			case "branch", "condition", "decision", "mcdc":
				if instr.Kind == program.KindGoto && instr.Guard != nil {
					body = append(body,
						goal(fmt.Sprintf("branch at %s taken", instr.Source), instr),
						goal(fmt.Sprintf("branch at %s not taken", instr.Source), instr))
				}
			case "path":
				if instr.Kind == program.KindEnd {
					body = append(body, goal(fmt.Sprintf("function %s completes", name), instr))
				}
			}

			// Checking is replaced by covering: assertions become
			// assumptions so they constrain paths instead of failing.
			if instr.Kind == program.KindAssert && instr.Property != nil &&
				instr.Property.Class != "coverage" {
				instr.Kind = program.KindAssume
				instr.Property = nil
			}
			body = append(body, instr)
		}
		fn.Body = body
	}

	logger.Debug("Coverage goals instrumented.", "criterion", criterion, "goals", goals)
	return nil
}
