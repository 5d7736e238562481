package lang

import (
	"errors"
	"fmt"
	"testing"
)

func compile(t *testing.T, src string) *Program {
	t.Helper()

	prog, err := Compile(t.Context(), src)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", src, err)
	}

	return prog
}

// exprOf parses src as a single expression statement.
func exprOf(t *testing.T, src string) Expr {
	t.Helper()

	prog := compile(t, src+";")
	if len(prog.Body) != 1 {
		t.Fatalf("Compile(%q): %d statements, want 1", src, len(prog.Body))
	}

	es, ok := prog.Body[0].(*ExprStmt)
	if !ok {
		t.Fatalf("Compile(%q): %T, want *ExprStmt", src, prog.Body[0])
	}

	return es.X
}

// sexpr renders an expression with explicit grouping.
func sexpr(e Expr) string {
	switch e := e.(type) {
	case *IntLit:
		return e.Text
	case *StrLit:
		return quote(e.Value)
	case *Ident:
		return e.Name
	case *UnaryExpr:
		return "(" + e.Op.String() + " " + sexpr(e.X) + ")"
	case *BinaryExpr:
		return "(" + e.Op.String() + " " + sexpr(e.X) + " " + sexpr(e.Y) + ")"
	default:
		return "?"
	}
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a && b || c && d", "(|| (&& a b) (&& c d))"},
		{"a == b < c", "(== a (< b c))"},
		{"a < b == c > d", "(== (< a b) (> c d))"},
		{"a + b < c * d", "(< (+ a b) (* c d))"},
		{"a != b || !c", "(|| (!= a b) (! c))"},
		{"-a * b", "(* (- a) b)"},
		{"- -a", "(- (- a))"},
		{"!-+a", "(! (- (+ a)))"},
		{"-(a + b)", "(- (+ a b))"},
		{`"a" + "b" + "c"`, `(+ (+ "a" "b") "c")`},
		{"a <= b >= c", "(>= (<= a b) c)"},
		{"((((1))))", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sexpr(exprOf(t, tt.input)); got != tt.want {
				t.Errorf("parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Statements(t *testing.T) {
	prog := compile(t, `
x = 1;
output();
output(x, "a", x + 1);
input(name);
if (x) output(1); else { output(2); }
loop (x < 3) x = x + 1;
{ }
{ y = 2; output(y); }
x + 1;
`)

	want := []string{
		"*lang.AssignStmt",
		"*lang.PrintStmt",
		"*lang.PrintStmt",
		"*lang.InputStmt",
		"*lang.IfStmt",
		"*lang.LoopStmt",
		"*lang.BlockStmt",
		"*lang.BlockStmt",
		"*lang.ExprStmt",
	}

	if len(prog.Body) != len(want) {
		t.Fatalf("got %d statements, want %d", len(prog.Body), len(want))
	}

	for i, s := range prog.Body {
		if got := fmt.Sprintf("%T", s); got != want[i] {
			t.Errorf("statement %d: %s, want %s", i, got, want[i])
		}
	}

	if p := prog.Body[1].(*PrintStmt); len(p.Args) != 0 {
		t.Errorf("output(): %d args, want 0", len(p.Args))
	}

	if p := prog.Body[2].(*PrintStmt); len(p.Args) != 3 {
		t.Errorf("output(x, \"a\", x + 1): %d args, want 3", len(p.Args))
	}

	if in := prog.Body[3].(*InputStmt); in.Name != "name" {
		t.Errorf("input target = %q, want name", in.Name)
	}

	ifs := prog.Body[4].(*IfStmt)
	if _, ok := ifs.Then.(*PrintStmt); !ok {
		t.Errorf("unbraced then-branch is %T, want *PrintStmt", ifs.Then)
	}

	if _, ok := ifs.Else.(*BlockStmt); !ok {
		t.Errorf("braced else-branch is %T, want *BlockStmt", ifs.Else)
	}

	if _, ok := prog.Body[5].(*LoopStmt).Body.(*AssignStmt); !ok {
		t.Errorf("unbraced loop body is not *AssignStmt")
	}

	if b := prog.Body[6].(*BlockStmt); len(b.List) != 0 {
		t.Errorf("empty block has %d statements", len(b.List))
	}

	if b := prog.Body[7].(*BlockStmt); len(b.List) != 2 {
		t.Errorf("block has %d statements, want 2", len(b.List))
	}
}

func TestParse_ElseBindsNearest(t *testing.T) {
	prog := compile(t, "if (a) if (b) output(1); else output(2);")

	outer := prog.Body[0].(*IfStmt)
	if outer.Else != nil {
		t.Fatal("else bound to the outer if")
	}

	if inner, ok := outer.Then.(*IfStmt); !ok || inner.Else == nil {
		t.Fatal("else not bound to the inner if")
	}
}

func TestParse_NodePositions(t *testing.T) {
	prog := compile(t, "x = 1 + 2;\nif (x) {\n  output(-x);\n}\n")

	assign := prog.Body[0].(*AssignStmt)
	if assign.Pos() != (Position{Offset: 0, Line: 1, Column: 1}) {
		t.Errorf("assign pos = %+v, want identifier position", assign.Pos())
	}

	if bin := assign.Value.(*BinaryExpr); bin.Pos().Column != 7 {
		t.Errorf("binary pos = %+v, want operator column 7", bin.Pos())
	}

	ifs := prog.Body[1].(*IfStmt)
	if ifs.Pos().Line != 2 || ifs.Pos().Column != 1 {
		t.Errorf("if pos = %+v, want keyword position", ifs.Pos())
	}

	block := ifs.Then.(*BlockStmt)
	if block.Pos().Line != 4 || block.Pos().Column != 1 {
		t.Errorf("block pos = %+v, want closing brace position", block.Pos())
	}

	out := block.List[0].(*PrintStmt)
	if out.Pos().Line != 3 || out.Pos().Column != 3 {
		t.Errorf("output pos = %+v, want keyword position", out.Pos())
	}

	if neg := out.Args[0].(*UnaryExpr); neg.Pos().Column != 10 {
		t.Errorf("unary pos = %+v, want operator column 10", neg.Pos())
	}
}

func TestParse_IntLiterals(t *testing.T) {
	if v := exprOf(t, "9223372036854775807").(*IntLit).Value; v != 9223372036854775807 {
		t.Errorf("max int64 = %d", v)
	}

	if v := exprOf(t, "007").(*IntLit).Value; v != 7 {
		t.Errorf("007 = %d, want 7", v)
	}

	_, err := Compile(t.Context(), "x = 9223372036854775808;")
	if !errors.Is(err, ErrIntRange) {
		t.Errorf("error = %v, want %v", err, ErrIntRange)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    error
		wantPos Position
	}{
		{
			name:    "missing assignment value",
			input:   "x = ;",
			want:    ErrInvalidPrimary,
			wantPos: Position{Offset: 4, Line: 1, Column: 5},
		},
		{
			name:    "missing semicolon",
			input:   "x = 1 y = 2;",
			want:    ErrUnexpectedToken,
			wantPos: Position{Offset: 6, Line: 1, Column: 7},
		},
		{
			name:    "missing closing paren",
			input:   "x = (1 + 2;",
			want:    ErrUnexpectedToken,
			wantPos: Position{Offset: 10, Line: 1, Column: 11},
		},
		{
			name:    "output without paren",
			input:   "output 1;",
			want:    ErrUnexpectedToken,
			wantPos: Position{Offset: 7, Line: 1, Column: 8},
		},
		{
			name:    "input of expression",
			input:   "input(1);",
			want:    ErrUnexpectedToken,
			wantPos: Position{Offset: 6, Line: 1, Column: 7},
		},
		{
			name:    "stray closing brace",
			input:   "}",
			want:    ErrInvalidPrimary,
			wantPos: Position{Offset: 0, Line: 1, Column: 1},
		},
		{
			name:    "else without if",
			input:   "else x = 1;",
			want:    ErrInvalidPrimary,
			wantPos: Position{Offset: 0, Line: 1, Column: 1},
		},
		{
			name:    "unclosed block",
			input:   "{ x = 1;",
			want:    ErrUnexpectedEOF,
			wantPos: Position{Offset: 8, Line: 1, Column: 9},
		},
		{
			name:    "dangling operator",
			input:   "x = 1 +",
			want:    ErrUnexpectedEOF,
			wantPos: Position{Offset: 7, Line: 1, Column: 8},
		},
		{
			name:    "missing loop body",
			input:   "loop (1)",
			want:    ErrUnexpectedEOF,
			wantPos: Position{Offset: 8, Line: 1, Column: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Compile(t.Context(), tt.input)
			if err == nil {
				t.Fatalf("Compile(%q) = %d statements, want error", tt.input, len(prog.Body))
			}

			if prog != nil {
				t.Error("want nil program on error")
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}

			var pe *Error
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *Error", err)
			}

			if pe.Phase != PhaseParse {
				t.Errorf("phase = %v, want parse", pe.Phase)
			}

			if pe.Pos != tt.wantPos {
				t.Errorf("pos = %+v, want %+v", pe.Pos, tt.wantPos)
			}
		})
	}
}

func TestParse_ErrorMessage(t *testing.T) {
	_, err := Compile(t.Context(), "x = (1;")

	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *Error", err)
	}

	want := "[parse error] line 1, col 7: unexpected token: expected ')' (found ';')"
	if got := pe.Diagnostic(); got != want {
		t.Errorf("Diagnostic() = %q, want %q", got, want)
	}
}

func TestParse_WithoutEOF(t *testing.T) {
	toks := []Token{
		{Kind: KindIdent, Lexeme: "x", Pos: Position{Line: 1, Column: 1}},
		{Kind: KindAssign, Lexeme: "=", Pos: Position{Line: 1, Column: 3}},
		{Kind: KindNumber, Lexeme: "1", Pos: Position{Line: 1, Column: 5}},
		{Kind: KindSemi, Lexeme: ";", Pos: Position{Line: 1, Column: 6}},
	}

	prog, err := Parse(t.Context(), toks)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if len(prog.Body) != 1 {
		t.Errorf("got %d statements, want 1", len(prog.Body))
	}

	if len(toks) != 4 {
		t.Errorf("Parse modified its input: %d tokens", len(toks))
	}

	if _, err := Parse(t.Context(), nil); err != nil {
		t.Errorf("Parse(nil) error: %v", err)
	}
}

func TestProgram_Names(t *testing.T) {
	prog := compile(t, "b = 1; input(a); output(b + c); loop (a) { d = b; }")

	want := []string{"b", "a", "c", "d"}

	got := prog.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	prog := compile(t, "a = 1 + 2 * 3;")

	n := 0
	for range Walk(prog) {
		n++
		if n == 3 {
			break
		}
	}

	if n != 3 {
		t.Errorf("visited %d nodes, want 3", n)
	}

	total := 0
	for range Walk(prog) {
		total++
	}

	// program, assign, +, 1, *, 2, 3
	if total != 7 {
		t.Errorf("Walk visited %d nodes, want 7", total)
	}
}
