package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/kvasir-mc/kvasir/internal/program"
)

// writeSymbolTable dumps the symbol table, names sorted.
func writeSymbolTable(w io.Writer, m *program.Model) {
	fmt.Fprintln(w, "** Symbol table:")
	for _, name := range m.Symbols.Names() {
		sym := m.Symbols.Lookup(name)
		fmt.Fprintf(w, "%-10s %s", sym.Kind, sym.Name)
		if sym.TypeHint != "" {
			fmt.Fprintf(w, " : %s", sym.TypeHint)
		}
		if sym.Library {
			fmt.Fprintf(w, " [library %s]", sym.Dialect)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "** %d symbols\n", m.Symbols.Len())
}

// writeLoops dumps the natural loops found by the index stage.
func writeLoops(w io.Writer, m *program.Model) {
	fmt.Fprintln(w, "** Loops:")
	for _, loop := range m.Loops {
		fmt.Fprintf(w, "%s: head %d, back edge %d\n", loop, loop.Head, loop.Back)
	}
	fmt.Fprintf(w, "** %d loops\n", len(m.Loops))
}

// writeFunctions dumps every transformed function body.
func writeFunctions(w io.Writer, m *program.Model) {
	for _, name := range m.FunctionNames() {
		writeFunction(w, m.Functions[name])
	}
}

// writeProperties dumps the labeled properties.
func writeProperties(w io.Writer, m *program.Model) {
	fmt.Fprintln(w, "** Properties:")
	for _, p := range m.Properties() {
		fmt.Fprintf(w, "[%s] %s: %s\n", p.ID, p.Class, p.Description)
	}
	fmt.Fprintf(w, "** %d properties\n", len(m.Properties()))
}

// writeProgram dumps the whole representation: entry point, dialects, then
// the function bodies.
func writeProgram(w io.Writer, m *program.Model) {
	fmt.Fprintf(w, "** Program (entry %s", m.EntryPoint)
	if len(m.Dialects) > 0 {
		fmt.Fprintf(w, ", dialects %s", strings.Join(m.Dialects, ","))
	}
	fmt.Fprintln(w, "):")
	writeFunctions(w, m)
}

func writeFunction(w io.Writer, fn *program.Function) {
	fmt.Fprintf(w, "%s:", fn.Name)
	if fn.Library {
		fmt.Fprint(w, " // library")
	}
	fmt.Fprintln(w)
	for i, instr := range fn.Body {
		for _, label := range instr.Labels {
			fmt.Fprintf(w, "  %s:\n", label)
		}
		fmt.Fprintf(w, "  %3d %s\n", i, renderInstruction(instr))
	}
}

// renderInstruction is the single-line form used by all dumps.
func renderInstruction(instr *program.Instruction) string {
	var sb strings.Builder
	sb.WriteString(instr.Kind.String())
	switch instr.Kind {
	case program.KindDecl:
		fmt.Fprintf(&sb, " %s", instr.Name)
		if instr.TypeHint != "" {
			fmt.Fprintf(&sb, " : %s", instr.TypeHint)
		}
	case program.KindAssign:
		fmt.Fprintf(&sb, " %s := %s", instr.Name, instr.Code)
	case program.KindAssume:
		fmt.Fprintf(&sb, " %s", instr.Guard)
	case program.KindAssert:
		fmt.Fprintf(&sb, " %s", instr.Guard)
		if instr.Property != nil {
			fmt.Fprintf(&sb, " // [%s] %s", instr.Property.ID, instr.Property.Description)
		}
	case program.KindGoto:
		fmt.Fprintf(&sb, " %s", instr.Target)
		if instr.Guard != nil {
			fmt.Fprintf(&sb, " if %s", instr.Guard)
		}
	case program.KindCall:
		if instr.Indirect {
			fmt.Fprintf(&sb, " *%s", instr.Callee)
		} else {
			fmt.Fprintf(&sb, " %s", instr.Callee)
		}
	case program.KindReturn:
		if instr.Code != "" {
			fmt.Fprintf(&sb, " %s", instr.Code)
		}
	case program.KindAsm, program.KindIO:
		fmt.Fprintf(&sb, " %s %s", instr.Name, instr.Code)
	}
	return sb.String()
}
