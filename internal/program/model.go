package program

import (
	"fmt"
	"sort"
)

// Function is one control-flow graph: a flat instruction list with labeled
// targets. Preconditions are library contracts the precondition stage turns
// into checkable assertions at call sites.
type Function struct {
	Name          string
	Body          []*Instruction
	Preconditions []Expr
	// Library marks functions added by runtime-support linking.
	Library bool
	Dialect string
}

// LabelIndex returns the body index of the instruction carrying label, or -1.
func (f *Function) LabelIndex(label string) int {
	for i, instr := range f.Body {
		if instr.HasLabel(label) {
			return i
		}
	}
	return -1
}

// Loop identifies one natural loop (a backward goto) in a function. Numbers
// are assigned per function in body order, so they are stable across runs.
type Loop struct {
	Function string
	Number   int
	Head     int
	Back     int
}

func (l Loop) String() string {
	return fmt.Sprintf("%s.%d", l.Function, l.Number)
}

// Model is the mutable program representation a session operates on. The
// session owns it exclusively; stages receive it by pointer and must leave
// it internally consistent on return.
type Model struct {
	Symbols    *SymbolTable
	Functions  map[string]*Function
	EntryPoint string

	// Dialects records which front-end dialects contributed sources;
	// runtime-support linking adds one library per dialect.
	Dialects []string

	// Derived indices, recomputed by the update-indices stage.
	CallGraph map[string][]string
	Loops     []Loop
}

// NewModel returns an empty model with an initialized symbol table.
func NewModel() *Model {
	return &Model{
		Symbols:   NewSymbolTable(),
		Functions: make(map[string]*Function),
	}
}

// AddFunction registers fn in the function map and the symbol table.
func (m *Model) AddFunction(fn *Function) {
	m.Functions[fn.Name] = fn
	m.Symbols.Add(&Symbol{
		Name:    fn.Name,
		Kind:    SymbolFunction,
		Library: fn.Library,
		Dialect: fn.Dialect,
	})
}

// RemoveFunction drops the named function from the function map and the
// symbol table.
func (m *Model) RemoveFunction(name string) {
	delete(m.Functions, name)
	if s := m.Symbols.Lookup(name); s != nil && s.Kind == SymbolFunction {
		m.Symbols.Remove(name)
	}
}

// FunctionNames returns all function names in sorted order. Every consumer
// that iterates the function map goes through this so labeling, dumps and
// derived indices are deterministic.
func (m *Model) FunctionNames() []string {
	names := make([]string, 0, len(m.Functions))
	for name := range m.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasDialect reports whether dialect contributed sources to this model.
func (m *Model) HasDialect(dialect string) bool {
	for _, d := range m.Dialects {
		if d == dialect {
			return true
		}
	}
	return false
}

// Properties returns every property in the model, functions in sorted order
// and instructions in body order.
func (m *Model) Properties() []*Property {
	var props []*Property
	for _, name := range m.FunctionNames() {
		for _, instr := range m.Functions[name].Body {
			if instr.Kind == KindAssert && instr.Property != nil {
				props = append(props, instr.Property)
			}
		}
	}
	return props
}

// PropertyIDs returns the identifiers of all labeled properties, in the same
// order as Properties.
func (m *Model) PropertyIDs() []string {
	var ids []string
	for _, p := range m.Properties() {
		if p.ID != "" {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Validate checks cross-referential consistency: every function has a symbol
// of function kind, every goto target resolves to a label in its function,
// and every direct call names a known function. Stages must preserve this.
func (m *Model) Validate() error {
	for _, name := range m.FunctionNames() {
		fn := m.Functions[name]
		sym := m.Symbols.Lookup(name)
		if sym == nil || sym.Kind != SymbolFunction {
			return fmt.Errorf("function %q has no function symbol", name)
		}
		for i, instr := range fn.Body {
			switch instr.Kind {
			case KindGoto:
				if fn.LabelIndex(instr.Target) < 0 {
					return fmt.Errorf("%s: instruction %d: dangling goto target %q", name, i, instr.Target)
				}
			case KindCall:
				if !instr.Indirect {
					if _, ok := m.Functions[instr.Callee]; !ok {
						return fmt.Errorf("%s: instruction %d: call to unknown function %q", name, i, instr.Callee)
					}
				}
			}
		}
	}
	if m.EntryPoint != "" {
		if _, ok := m.Functions[m.EntryPoint]; !ok {
			return fmt.Errorf("entry point %q is not a known function", m.EntryPoint)
		}
	}
	return nil
}
