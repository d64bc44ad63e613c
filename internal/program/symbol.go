package program

import "sort"

// SymbolKind discriminates symbol-table entries.
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolVariable
	SymbolStatic
	SymbolFailed
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolVariable:
		return "variable"
	case SymbolStatic:
		return "static"
	case SymbolFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Symbol is one entry of the shared symbol table.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	TypeHint string
	// Library marks symbols pulled in by runtime-support linking rather
	// than declared by user code.
	Library bool
	// Dialect records which front-end dialect owns a library symbol.
	Dialect string
}

// SymbolTable maps names to symbols. It preserves no insertion order;
// iteration helpers return names sorted so dumps and derived indices are
// deterministic.
type SymbolTable struct {
	entries map[string]*Symbol
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[string]*Symbol)}
}

// Add inserts or replaces a symbol.
func (st *SymbolTable) Add(s *Symbol) {
	st.entries[s.Name] = s
}

// Lookup returns the symbol for name, or nil.
func (st *SymbolTable) Lookup(name string) *Symbol {
	return st.entries[name]
}

// Has reports whether name is present.
func (st *SymbolTable) Has(name string) bool {
	_, ok := st.entries[name]
	return ok
}

// Remove deletes the symbol for name if present.
func (st *SymbolTable) Remove(name string) {
	delete(st.entries, name)
}

// Len returns the number of entries.
func (st *SymbolTable) Len() int {
	return len(st.entries)
}

// Names returns all symbol names in sorted order.
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.entries))
	for name := range st.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
