package session

import (
	"fmt"
	"io"
	"sort"

	"github.com/kvasir-mc/kvasir/internal/program"
)

// writeDimacs exports the verification condition as DIMACS CNF. Each
// property gets one propositional variable standing for its guard; the
// formula asserts that some guard is violated, which is exactly the query
// the stop-on-fail flow would hand a SAT solver.
func writeDimacs(w io.Writer, m *program.Model) error {
	props := m.Properties()
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", len(props), len(props)+1); err != nil {
		return err
	}
	for i, p := range props {
		if _, err := fmt.Fprintf(w, "c %d [%s] %s\n", i+1, p.ID, p.Description); err != nil {
			return err
		}
	}
	// One clause per property binding its variable, one disjunction of the
	// negated guards.
	for i := range props {
		if _, err := fmt.Fprintf(w, "%d 0\n", i+1); err != nil {
			return err
		}
	}
	for i := range props {
		if _, err := fmt.Fprintf(w, "%d ", -(i + 1)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "0")
	return err
}

// writeSMT exports the verification condition in SMT-LIB form: the free
// symbols of the guards as boolean constants, and one assertion that some
// guard is violated.
func writeSMT(w io.Writer, m *program.Model) error {
	props := m.Properties()

	syms := make(map[string]bool)
	for _, p := range props {
		collectSyms(p.Guard, syms)
	}
	names := make([]string, 0, len(syms))
	for name := range syms {
		names = append(names, name)
	}
	sort.Strings(names)

	if _, err := fmt.Fprintln(w, "(set-logic QF_UF)"); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "(declare-const %s Bool)\n", name); err != nil {
			return err
		}
	}
	for _, p := range props {
		if _, err := fmt.Fprintf(w, "; [%s] %s\n(assert (not %s))\n", p.ID, p.Description, smtExpr(p.Guard)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "(check-sat)")
	return err
}

func collectSyms(e program.Expr, out map[string]bool) {
	switch v := e.(type) {
	case program.Sym:
		out[v.Name] = true
	case program.Not:
		collectSyms(v.X, out)
	}
}

func smtExpr(e program.Expr) string {
	switch v := e.(type) {
	case program.Const:
		if v.Value {
			return "true"
		}
		return "false"
	case program.Sym:
		return v.Name
	case program.Not:
		return "(not " + smtExpr(v.X) + ")"
	default:
		return e.String()
	}
}
