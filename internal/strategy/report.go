package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kvasir-mc/kvasir/internal/program"
	"github.com/kvasir-mc/kvasir/internal/verifier"
)

// renderReport produces the human-readable per-property report, with a fault
// localization section for the failed properties when requested.
func renderReport(id ID, results []verifier.Result, localizeFaults bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "** Results (%s):\n", id)

	failed := 0
	unknown := 0
	for _, r := range results {
		fmt.Fprintf(&sb, "[%s] %s: %s\n", r.Property.ID, r.Property.Description, r.Verdict)
		switch r.Verdict {
		case verifier.VerdictFail:
			failed++
		case verifier.VerdictUnknown:
			unknown++
		}
	}
	fmt.Fprintf(&sb, "** %d of %d failed", failed, len(results))
	if unknown > 0 {
		fmt.Fprintf(&sb, " (%d unknown)", unknown)
	}
	sb.WriteString("\n")

	if localizeFaults {
		for _, r := range results {
			if r.Verdict != verifier.VerdictFail || r.Trace == nil {
				continue
			}
			sb.WriteString(localizeFault(r))
		}
	}
	return sb.String()
}

// localizeFault ranks likely causes of one violated property: the
// assignments on its counterexample trace, scored by how close to the
// violation they sit.
func localizeFault(r verifier.Result) string {
	type suspect struct {
		step  verifier.TraceStep
		score int
	}
	var suspects []suspect
	for i, step := range r.Trace.Steps {
		if step.Kind == program.KindAssign || step.Kind == program.KindDecl {
			suspects = append(suspects, suspect{step: step, score: i + 1})
		}
	}
	sort.SliceStable(suspects, func(i, j int) bool {
		return suspects[i].score > suspects[j].score
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "** Fault localization for [%s]:\n", r.Property.ID)
	if len(suspects) == 0 {
		sb.WriteString("  no candidate assignments on trace\n")
		return sb.String()
	}
	for rank, s := range suspects {
		fmt.Fprintf(&sb, "  %d. %s (%s) %s\n", rank+1, s.step.Function, s.step.Source, s.step.Detail)
	}
	return sb.String()
}
