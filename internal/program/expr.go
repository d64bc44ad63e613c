package program

// Expr is a guard expression attached to assertions, assumptions and
// conditional gotos. The representation is deliberately small: constants,
// symbol references and negation are all the transform stages and the naive
// checker ever need to inspect. Anything richer stays opaque inside Sym.
type Expr interface {
	exprNode()
	String() string
}

// Const is a literal boolean guard.
type Const struct {
	Value bool
}

func (Const) exprNode() {}

func (c Const) String() string {
	if c.Value {
		return "true"
	}
	return "false"
}

// Sym is a reference to a symbol whose value is not known statically.
type Sym struct {
	Name string
}

func (Sym) exprNode() {}

func (s Sym) String() string { return s.Name }

// Not negates its operand.
type Not struct {
	X Expr
}

func (Not) exprNode() {}

func (n Not) String() string { return "!" + n.X.String() }

// True and False are the shared constant guards.
var (
	True  = Const{Value: true}
	False = Const{Value: false}
)
