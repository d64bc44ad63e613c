package builder

import (
	"fmt"
	"os"
	"strings"

	"github.com/kvasir-mc/kvasir/internal/program"
)

// parseFile parses one dialect source or binary file into the model.
//
// The format is line oriented:
//
//	static NAME TYPE
//	function NAME
//	  requires GUARD
//	  decl NAME TYPE
//	  assign NAME CODE... [ops=a,b]
//	  assume GUARD
//	  assert GUARD "description"
//	  label NAME
//	  goto TARGET [if GUARD]
//	  call NAME
//	  callptr POINTER [CANDIDATE,...]
//	  return [CODE]
//	  asm CODE...
//	  io NAME
//	end
//
// Every function body is terminated with a synthetic END instruction, which
// downstream stages rely on.
func parseFile(m *program.Model, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read input %q: %w", path, err)
	}

	var current *program.Function
	var pendingLabels []string

	fail := func(lineNo int, format string, args ...any) error {
		return fmt.Errorf("%s:%d: %s", path, lineNo, fmt.Sprintf(format, args...))
	}

	for lineNo, rawLine := range strings.Split(string(data), "\n") {
		lineNo++
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		keyword := fields[0]
		loc := program.Location{File: path, Line: lineNo}

		if current == nil {
			switch keyword {
			case "static":
				if len(fields) < 2 {
					return fail(lineNo, "static needs a name")
				}
				sym := &program.Symbol{Name: fields[1], Kind: program.SymbolStatic}
				if len(fields) > 2 {
					sym.TypeHint = fields[2]
				}
				m.Symbols.Add(sym)
			case "function":
				if len(fields) < 2 {
					return fail(lineNo, "function needs a name")
				}
				current = &program.Function{Name: fields[1]}
			default:
				return fail(lineNo, "unexpected %q outside a function", keyword)
			}
			continue
		}

		emit := func(instr *program.Instruction) {
			instr.Labels = append(pendingLabels, instr.Labels...)
			pendingLabels = nil
			instr.Source = loc
			current.Body = append(current.Body, instr)
		}

		rest := fields[1:]
		var ops []string
		if len(rest) > 0 && strings.HasPrefix(rest[len(rest)-1], "ops=") {
			ops = strings.Split(strings.TrimPrefix(rest[len(rest)-1], "ops="), ",")
			rest = rest[:len(rest)-1]
		}

		switch keyword {
		case "end":
			end := &program.Instruction{Kind: program.KindEnd, Source: loc}
			end.Labels = pendingLabels
			pendingLabels = nil
			current.Body = append(current.Body, end)
			m.AddFunction(current)
			current = nil
		case "requires":
			if len(rest) != 1 {
				return fail(lineNo, "requires needs exactly one guard")
			}
			current.Preconditions = append(current.Preconditions, parseGuard(rest[0]))
		case "decl":
			if len(rest) < 1 {
				return fail(lineNo, "decl needs a name")
			}
			instr := &program.Instruction{Kind: program.KindDecl, Name: rest[0], Ops: ops}
			if len(rest) > 1 {
				instr.TypeHint = rest[1]
			}
			m.Symbols.Add(&program.Symbol{Name: rest[0], Kind: program.SymbolVariable, TypeHint: instr.TypeHint})
			emit(instr)
		case "assign":
			if len(rest) < 1 {
				return fail(lineNo, "assign needs a target")
			}
			emit(&program.Instruction{
				Kind: program.KindAssign,
				Name: rest[0],
				Code: strings.Join(rest[1:], " "),
				Ops:  ops,
			})
		case "assume":
			if len(rest) != 1 {
				return fail(lineNo, "assume needs exactly one guard")
			}
			emit(&program.Instruction{Kind: program.KindAssume, Guard: parseGuard(rest[0]), Ops: ops})
		case "assert":
			if len(rest) < 1 {
				return fail(lineNo, "assert needs a guard")
			}
			guard := parseGuard(rest[0])
			desc := strings.Trim(strings.Join(rest[1:], " "), `"`)
			if desc == "" {
				desc = "assertion " + guard.String()
			}
			emit(&program.Instruction{
				Kind:  program.KindAssert,
				Guard: guard,
				Ops:   ops,
				Property: &program.Property{
					Class:       "assertion",
					Description: desc,
					Guard:       guard,
				},
			})
		case "label":
			if len(rest) != 1 {
				return fail(lineNo, "label needs exactly one name")
			}
			pendingLabels = append(pendingLabels, rest[0])
		case "goto":
			if len(rest) < 1 {
				return fail(lineNo, "goto needs a target")
			}
			instr := &program.Instruction{Kind: program.KindGoto, Target: rest[0], Ops: ops}
			if len(rest) == 3 && rest[1] == "if" {
				instr.Guard = parseGuard(rest[2])
			} else if len(rest) != 1 {
				return fail(lineNo, "malformed goto")
			}
			emit(instr)
		case "call":
			if len(rest) != 1 {
				return fail(lineNo, "call needs exactly one target")
			}
			emit(&program.Instruction{Kind: program.KindCall, Callee: rest[0], Ops: ops})
		case "callptr":
			if len(rest) < 1 {
				return fail(lineNo, "callptr needs a pointer")
			}
			instr := &program.Instruction{Kind: program.KindCall, Callee: rest[0], Indirect: true, Ops: ops}
			if len(rest) > 1 {
				instr.Code = rest[1]
			}
			emit(instr)
		case "return":
			emit(&program.Instruction{Kind: program.KindReturn, Code: strings.Join(rest, " "), Ops: ops})
		case "asm":
			emit(&program.Instruction{Kind: program.KindAsm, Code: strings.Join(rest, " ")})
		case "io":
			if len(rest) < 1 {
				return fail(lineNo, "io needs a register name")
			}
			instr := &program.Instruction{Kind: program.KindIO, Name: rest[0]}
			if len(rest) > 1 {
				instr.Code = strings.Join(rest[1:], " ")
			}
			emit(instr)
		default:
			return fail(lineNo, "unknown keyword %q", keyword)
		}
	}

	if current != nil {
		return fmt.Errorf("%s: function %q has no end", path, current.Name)
	}
	return nil
}

// parseGuard turns a guard token into an expression: the literals true and
// false, an optional leading ! for negation, anything else a symbol.
func parseGuard(token string) program.Expr {
	if strings.HasPrefix(token, "!") {
		return program.Not{X: parseGuard(token[1:])}
	}
	switch token {
	case "true":
		return program.True
	case "false":
		return program.False
	default:
		return program.Sym{Name: token}
	}
}
