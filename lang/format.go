package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
)

// Format writes prog in canonical source form. Nested blocks are indented by
// indent spaces per level; with indent <= 0 each block is written on one line.
// Parsing the output yields a tree equivalent to prog.
func Format(w io.Writer, prog *Program, indent int) error {
	f := formatter{indent: indent}

	for _, s := range prog.Body {
		f.stmt(s, 0)
		f.sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, f.sb.String())

	return err
}

// FormatString returns the canonical source form of a single node.
func FormatString(n Node) string {
	var f formatter

	switch n := n.(type) {
	case Expr:
		f.expr(n, 0)
	case Stmt:
		f.stmt(n, 0)
	}

	return f.sb.String()
}

// FormatJSON writes the tree of prog, as built by [ToMap], as JSON.
func FormatJSON(w io.Writer, prog *Program, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ToMap(prog), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ToMap(prog))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the tree of prog, as built by [ToMap], as YAML.
// With indent <= 0 the document is written in flow style.
func FormatYAML(ctx context.Context, w io.Writer, prog *Program, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, yamlSafe(ToMap(prog)), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// yamlText is a string encoded as a double-quoted YAML scalar. Plain scalars
// cannot hold control characters such as TAB.
type yamlText string

func (s yamlText) MarshalYAML() ([]byte, error) {
	return []byte(strconv.Quote(string(s))), nil
}

// yamlSafe returns v with each string containing a control character
// replaced by a yamlText, descending into the maps and slices of [ToMap].
func yamlSafe(v any) any {
	switch v := v.(type) {
	case string:
		if strings.ContainsFunc(v, unicode.IsControl) {
			return yamlText(v)
		}

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = yamlSafe(e)
		}

		return out

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = yamlSafe(e)
		}

		return out
	}

	return v
}

// FormatTokens writes one token per line as "line:col kind lexeme".
func FormatTokens(w io.Writer, toks []Token) error {
	for _, t := range toks {
		_, err := fmt.Fprintf(w, "%d:%d\t%-10s\t%s\n",
			t.Pos.Line, t.Pos.Column, kindLabel(t.Kind), t)
		if err != nil {
			return err
		}
	}

	return nil
}

// kindLabel names token classes, since Kind.String of an operator is the
// operator itself.
func kindLabel(k Kind) string {
	switch {
	case k.IsKeyword():
		return "keyword"
	case k >= KindPlus && k <= KindNot:
		return "operator"
	case k == KindEOF:
		return "eof"
	default:
		return k.String()
	}
}

// ToMap converts a node into nested maps and slices of native values.
// The map of every node carries its "node" kind and source "line" and "col".
func ToMap(n Node) map[string]any {
	if p, ok := n.(*Program); ok {
		return map[string]any{"node": "program", "body": stmtMaps(p.Body)}
	}

	pos := n.Pos()
	m := map[string]any{"node": nodeKind(n), "line": pos.Line, "col": pos.Column}

	switch n := n.(type) {
	case *IntLit:
		m["value"] = n.Value

	case *StrLit:
		m["value"] = n.Value

	case *Ident:
		m["name"] = n.Name

	case *UnaryExpr:
		m["op"], m["x"] = n.Op.String(), ToMap(n.X)

	case *BinaryExpr:
		m["op"] = n.Op.String()
		m["x"], m["y"] = ToMap(n.X), ToMap(n.Y)

	case *AssignStmt:
		m["name"], m["value"] = n.Name, ToMap(n.Value)

	case *PrintStmt:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = ToMap(a)
		}

		m["args"] = args

	case *InputStmt:
		m["name"] = n.Name

	case *IfStmt:
		m["cond"], m["then"] = ToMap(n.Cond), ToMap(n.Then)
		if n.Else != nil {
			m["else"] = ToMap(n.Else)
		}

	case *LoopStmt:
		m["cond"], m["body"] = ToMap(n.Cond), ToMap(n.Body)

	case *BlockStmt:
		m["body"] = stmtMaps(n.List)

	case *ExprStmt:
		m["x"] = ToMap(n.X)
	}

	return m
}

// FormatTree writes one line per node of the tree rooted at n, indented two
// spaces per depth, with the node kind, its operator or name, and position.
func FormatTree(w io.Writer, n Node) error {
	var sb strings.Builder

	treeLine(&sb, n, 0)

	_, err := io.WriteString(w, sb.String())

	return err
}

func treeLine(sb *strings.Builder, n Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(nodeKind(n))

	switch n := n.(type) {
	case *IntLit:
		sb.WriteString(" " + strconv.FormatInt(n.Value, 10))
	case *StrLit:
		sb.WriteString(" " + quote(n.Value))
	case *Ident:
		sb.WriteString(" " + n.Name)
	case *UnaryExpr:
		sb.WriteString(" " + n.Op.String())
	case *BinaryExpr:
		sb.WriteString(" " + n.Op.String())
	case *AssignStmt:
		sb.WriteString(" " + n.Name)
	case *InputStmt:
		sb.WriteString(" " + n.Name)
	}

	if pos := n.Pos(); pos.IsValid() {
		sb.WriteString(" @" + strconv.Itoa(pos.Line) + ":" + strconv.Itoa(pos.Column))
	}

	sb.WriteByte('\n')

	for _, c := range Children(n) {
		treeLine(sb, c, depth+1)
	}
}

// nodeKind returns the "node" value ToMap records for n.
func nodeKind(n Node) string {
	switch n.(type) {
	case *Program:
		return "program"
	case *IntLit:
		return "int"
	case *StrLit:
		return "string"
	case *Ident:
		return "ident"
	case *UnaryExpr:
		return "unary"
	case *BinaryExpr:
		return "binary"
	case *AssignStmt:
		return "assign"
	case *PrintStmt:
		return "output"
	case *InputStmt:
		return "input"
	case *IfStmt:
		return "if"
	case *LoopStmt:
		return "loop"
	case *BlockStmt:
		return "block"
	case *ExprStmt:
		return "expr"
	default:
		return "unknown"
	}
}

func stmtMaps(list []Stmt) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = ToMap(s)
	}

	return out
}

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToMap(p))
}

// formatter accumulates canonical source text.
type formatter struct {
	sb     strings.Builder
	indent int
}

func (f *formatter) pad(depth int) {
	if f.indent > 0 {
		f.sb.WriteString(strings.Repeat(" ", depth*f.indent))
	}
}

func (f *formatter) stmt(s Stmt, depth int) {
	switch s := s.(type) {
	case *AssignStmt:
		f.sb.WriteString(s.Name)
		f.sb.WriteString(" = ")
		f.expr(s.Value, 0)
		f.sb.WriteByte(';')

	case *PrintStmt:
		f.sb.WriteString("output(")

		for i, a := range s.Args {
			if i > 0 {
				f.sb.WriteString(", ")
			}

			f.expr(a, 0)
		}

		f.sb.WriteString(");")

	case *InputStmt:
		f.sb.WriteString("input(" + s.Name + ");")

	case *IfStmt:
		f.sb.WriteString("if (")
		f.expr(s.Cond, 0)
		f.sb.WriteString(") ")
		f.body(s.Then, depth)

		if s.Else != nil {
			f.sb.WriteString(" else ")
			f.body(s.Else, depth)
		}

	case *LoopStmt:
		f.sb.WriteString("loop (")
		f.expr(s.Cond, 0)
		f.sb.WriteString(") ")
		f.body(s.Body, depth)

	case *BlockStmt:
		f.block(s, depth)

	case *ExprStmt:
		f.expr(s.X, 0)
		f.sb.WriteByte(';')
	}
}

// body writes the branch of an if or loop statement. A branch that is not a
// block is wrapped in one so that a following else binds unambiguously.
func (f *formatter) body(s Stmt, depth int) {
	if b, ok := s.(*BlockStmt); ok {
		f.block(b, depth)

		return
	}

	f.block(&BlockStmt{List: []Stmt{s}}, depth)
}

func (f *formatter) block(b *BlockStmt, depth int) {
	if len(b.List) == 0 {
		f.sb.WriteString("{}")

		return
	}

	f.sb.WriteByte('{')

	for _, s := range b.List {
		if f.indent > 0 {
			f.sb.WriteByte('\n')
			f.pad(depth + 1)
		} else {
			f.sb.WriteByte(' ')
		}

		f.stmt(s, depth+1)
	}

	if f.indent > 0 {
		f.sb.WriteByte('\n')
		f.pad(depth)
	} else {
		f.sb.WriteByte(' ')
	}

	f.sb.WriteByte('}')
}

// expr writes e, parenthesized if its binding power is below prec.
func (f *formatter) expr(e Expr, prec int) {
	switch e := e.(type) {
	case *IntLit:
		f.sb.WriteString(strconv.FormatInt(e.Value, 10))

	case *StrLit:
		f.sb.WriteString(quote(e.Value))

	case *Ident:
		f.sb.WriteString(e.Name)

	case *UnaryExpr:
		f.sb.WriteString(e.Op.String())
		f.expr(e.X, e.Op.precedence())

	case *BinaryExpr:
		p := e.Op.precedence()
		if p < prec {
			f.sb.WriteByte('(')
		}

		// Left-associative: the right operand needs parentheses at equal
		// precedence.
		f.expr(e.X, p)
		f.sb.WriteString(" " + e.Op.String() + " ")
		f.expr(e.Y, p+1)

		if p < prec {
			f.sb.WriteByte(')')
		}
	}
}
