package lang

import "iter"

// Node is any element of the abstract syntax tree.
// A tree is immutable once [Parse] returns it.
type Node interface {
	// Pos returns the source position the node is reported at.
	Pos() Position
	node()
}

// Expr is a node that evaluates to a [Value].
type Expr interface {
	Node
	expr()
}

// Stmt is a node executed for its effect.
type Stmt interface {
	Node
	stmt()
}

// Operator identifies a unary or binary operation.
type Operator int

const (
	OpAdd Operator = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
	OpEq                  // ==
	OpNe                  // !=
	OpLt                  // <
	OpLe                  // <=
	OpGt                  // >
	OpGe                  // >=
	OpAnd                 // &&
	OpOr                  // ||
	OpNot                 // !
	OpNeg                 // unary -
	OpPos                 // unary +
)

var opSymbols = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpEq:  "==",
	OpNe:  "!=",
	OpLt:  "<",
	OpLe:  "<=",
	OpGt:  ">",
	OpGe:  ">=",
	OpAnd: "&&",
	OpOr:  "||",
	OpNot: "!",
	OpNeg: "-",
	OpPos: "+",
}

// String returns the operator's source symbol.
func (op Operator) String() string {
	if op >= 0 && int(op) < len(opSymbols) {
		return opSymbols[op]
	}

	return "?"
}

// precedence returns the binding power of a binary operator, lowest first.
// Unary operators bind tighter than every binary level.
func (op Operator) precedence() int {
	switch op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpEq, OpNe:
		return 3
	case OpLt, OpLe, OpGt, OpGe:
		return 4
	case OpAdd, OpSub:
		return 5
	case OpMul, OpDiv:
		return 6
	default:
		return 7
	}
}

type (
	// IntLit is an integer literal.
	IntLit struct {
		At    Position
		Text  string
		Value int64
	}

	// StrLit is a string literal with escapes already decoded.
	StrLit struct {
		At    Position
		Value string
	}

	// Ident is a variable reference.
	Ident struct {
		At   Position
		Name string
	}

	// UnaryExpr is a prefix operation: !X, -X, or +X.
	UnaryExpr struct {
		At Position
		Op Operator
		X  Expr
	}

	// BinaryExpr is an infix operation X Op Y.
	BinaryExpr struct {
		At Position
		Op Operator
		X  Expr
		Y  Expr
	}
)

type (
	// AssignStmt stores the value of Value in the variable Name.
	AssignStmt struct {
		At    Position
		Name  string
		Value Expr
	}

	// PrintStmt writes its space-separated arguments and a newline.
	PrintStmt struct {
		At   Position
		Args []Expr
	}

	// InputStmt reads a line into the variable Name.
	InputStmt struct {
		At   Position
		Name string
	}

	// IfStmt executes Then when Cond is truthy, otherwise Else if non-nil.
	IfStmt struct {
		At   Position
		Cond Expr
		Then Stmt
		Else Stmt
	}

	// LoopStmt executes Body while Cond is truthy.
	LoopStmt struct {
		At   Position
		Cond Expr
		Body Stmt
	}

	// BlockStmt is a brace-delimited statement list.
	BlockStmt struct {
		At   Position
		List []Stmt
	}

	// ExprStmt is an expression evaluated for its errors only; its value is
	// discarded.
	ExprStmt struct {
		X Expr
	}
)

// Program is the root of a parsed script. It is a [Node] but neither an
// [Expr] nor a [Stmt].
type Program struct {
	Body []Stmt
}

func (n *IntLit) Pos() Position     { return n.At }
func (n *StrLit) Pos() Position     { return n.At }
func (n *Ident) Pos() Position      { return n.At }
func (n *UnaryExpr) Pos() Position  { return n.At }
func (n *BinaryExpr) Pos() Position { return n.At }
func (n *AssignStmt) Pos() Position { return n.At }
func (n *PrintStmt) Pos() Position  { return n.At }
func (n *InputStmt) Pos() Position  { return n.At }
func (n *IfStmt) Pos() Position     { return n.At }
func (n *LoopStmt) Pos() Position   { return n.At }
func (n *BlockStmt) Pos() Position  { return n.At }
func (n *ExprStmt) Pos() Position   { return n.X.Pos() }

// Pos returns the position of the first statement, or the zero Position for
// an empty program.
func (p *Program) Pos() Position {
	if len(p.Body) == 0 {
		return Position{}
	}

	return p.Body[0].Pos()
}

func (*IntLit) node()     {}
func (*StrLit) node()     {}
func (*Ident) node()      {}
func (*UnaryExpr) node()  {}
func (*BinaryExpr) node() {}
func (*AssignStmt) node() {}
func (*PrintStmt) node()  {}
func (*InputStmt) node()  {}
func (*IfStmt) node()     {}
func (*LoopStmt) node()   {}
func (*BlockStmt) node()  {}
func (*ExprStmt) node()   {}
func (*Program) node()    {}

func (*IntLit) expr()     {}
func (*StrLit) expr()     {}
func (*Ident) expr()      {}
func (*UnaryExpr) expr()  {}
func (*BinaryExpr) expr() {}

func (*AssignStmt) stmt() {}
func (*PrintStmt) stmt()  {}
func (*InputStmt) stmt()  {}
func (*IfStmt) stmt()     {}
func (*LoopStmt) stmt()   {}
func (*BlockStmt) stmt()  {}
func (*ExprStmt) stmt()   {}

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *UnaryExpr:
		return []Node{n.X}

	case *BinaryExpr:
		return []Node{n.X, n.Y}

	case *AssignStmt:
		return []Node{n.Value}

	case *PrintStmt:
		out := make([]Node, len(n.Args))
		for i, a := range n.Args {
			out[i] = a
		}

		return out

	case *IfStmt:
		if n.Else == nil {
			return []Node{n.Cond, n.Then}
		}

		return []Node{n.Cond, n.Then, n.Else}

	case *LoopStmt:
		return []Node{n.Cond, n.Body}

	case *BlockStmt:
		out := make([]Node, len(n.List))
		for i, s := range n.List {
			out[i] = s
		}

		return out

	case *ExprStmt:
		return []Node{n.X}

	case *Program:
		out := make([]Node, len(n.Body))
		for i, s := range n.Body {
			out[i] = s
		}

		return out

	default:
		return nil
	}
}

// Walk returns a depth-first, pre-order iterator over n and its descendants.
func Walk(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(n, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if n == nil {
		return true
	}

	if !yield(n) {
		return false
	}

	for _, c := range Children(n) {
		if !walk(c, yield) {
			return false
		}
	}

	return true
}

// All returns a depth-first iterator over every node of the program.
func (p *Program) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, s := range p.Body {
			if !walk(s, yield) {
				return
			}
		}
	}
}

// Names returns the distinct variable names assigned, read, or input by the
// program, in first-appearance order.
func (p *Program) Names() []string {
	seen := make(map[string]struct{})

	var names []string

	add := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	for n := range p.All() {
		switch n := n.(type) {
		case *Ident:
			add(n.Name)
		case *AssignStmt:
			add(n.Name)
		case *InputStmt:
			add(n.Name)
		}
	}

	return names
}
