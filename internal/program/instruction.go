package program

import "fmt"

// Kind discriminates the instruction variants of the representation.
type Kind int

const (
	KindSkip Kind = iota
	KindDecl
	KindAssign
	KindAssume
	KindAssert
	KindGoto
	KindCall
	KindReturn
	KindAsm
	KindIO
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindSkip:
		return "SKIP"
	case KindDecl:
		return "DECL"
	case KindAssign:
		return "ASSIGN"
	case KindAssume:
		return "ASSUME"
	case KindAssert:
		return "ASSERT"
	case KindGoto:
		return "GOTO"
	case KindCall:
		return "CALL"
	case KindReturn:
		return "RETURN"
	case KindAsm:
		return "ASM"
	case KindIO:
		return "IO"
	case KindEnd:
		return "END"
	default:
		return fmt.Sprintf("KIND(%d)", int(k))
	}
}

// Location records where an instruction came from in the source text.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.File == "" {
		return "<built-in>"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Property is a named checkable condition attached to an ASSERT instruction.
// ID is empty until the labeling stage assigns a stable identifier; once set
// it must never change for the remainder of the session.
type Property struct {
	ID          string
	Class       string
	Description string
	Guard       Expr
}

// Instruction is one step of a function body. The meaning of the fields
// depends on Kind:
//
//	DECL    Name declares a variable, TypeHint its type
//	ASSIGN  Name is the assigned symbol, Code the right-hand side text
//	ASSUME  Guard constrains the path condition
//	ASSERT  Guard is the checked condition, Property its metadata
//	GOTO    Target is the destination label, Guard the branch condition
//	CALL    Callee names the target, Indirect marks a function-pointer call
//	IO      Name is the memory-mapped register symbol
type Instruction struct {
	Kind     Kind
	Name     string
	TypeHint string
	Code     string
	Guard    Expr
	Target   string
	Callee   string
	Indirect bool
	Labels   []string
	Property *Property
	Source   Location

	// Ops are the primitive operations the front end saw in this
	// instruction ("index", "deref", "div", "shift", "float", ...); the
	// generic-checks stage keys its instrumentation off them.
	Ops []string
}

// HasOp reports whether the instruction carries the given primitive op.
func (i *Instruction) HasOp(op string) bool {
	for _, o := range i.Ops {
		if o == op {
			return true
		}
	}
	return false
}

// HasLabel reports whether the instruction carries the given label.
func (i *Instruction) HasLabel(label string) bool {
	for _, l := range i.Labels {
		if l == label {
			return true
		}
	}
	return false
}
