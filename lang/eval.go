package lang

import (
	"cmp"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// execList executes statements in order, stopping at the first error.
func (m *Machine) execList(ctx context.Context, list []Stmt) error {
	for _, s := range list {
		if err := m.exec(ctx, s); err != nil {
			return err
		}
	}

	return nil
}

func (m *Machine) exec(ctx context.Context, s Stmt) error {
	switch s := s.(type) {
	case *AssignStmt:
		v, err := m.eval(ctx, s.Value)
		if err != nil {
			return err
		}

		if err := m.declare(s.Name, s.At); err != nil {
			return err
		}

		m.vars[s.Name] = v

		return nil

	case *PrintStmt:
		return m.execPrint(ctx, s)

	case *InputStmt:
		return m.execInput(s)

	case *IfStmt:
		c, err := m.eval(ctx, s.Cond)
		if err != nil {
			return err
		}

		switch {
		case c.Truthy():
			return m.exec(ctx, s.Then)
		case s.Else != nil:
			return m.exec(ctx, s.Else)
		}

		return nil

	case *LoopStmt:
		return m.execLoop(ctx, s)

	case *BlockStmt:
		return m.execList(ctx, s.List)

	case *ExprStmt:
		_, err := m.eval(ctx, s.X)

		return err

	default:
		return nil
	}
}

func (m *Machine) execPrint(ctx context.Context, s *PrintStmt) error {
	for i, a := range s.Args {
		v, err := m.eval(ctx, a)
		if err != nil {
			return err
		}

		if i > 0 {
			m.out.WriteByte(' ')
		}

		m.out.WriteString(v.String())
	}

	if err := m.out.WriteByte('\n'); err != nil {
		return ErrOutput.At(s.At).Wrap(err)
	}

	return nil
}

func (m *Machine) execInput(s *InputStmt) error {
	if err := m.declare(s.Name, s.At); err != nil {
		return err
	}

	if m.in == nil {
		return ErrInput.At(s.At).Detail("no input stream")
	}

	m.out.WriteString(m.opts.prompt)

	if err := m.out.Flush(); err != nil {
		return ErrOutput.At(s.At).Wrap(err)
	}

	line, err := m.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return ErrInput.At(s.At).Wrap(err)
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	m.vars[s.Name] = Str(line)

	return nil
}

// execLoop runs the body while the condition holds, at most maxIterations
// times. The context is checked before each body execution.
func (m *Machine) execLoop(ctx context.Context, s *LoopStmt) error {
	for n := 0; ; n++ {
		c, err := m.eval(ctx, s.Cond)
		if err != nil {
			return err
		}

		if !c.Truthy() {
			return nil
		}

		if m.opts.maxIterations > 0 && n >= m.opts.maxIterations {
			return ErrLoopLimit.At(s.At).
				With(slog.Int("max_iterations", m.opts.maxIterations))
		}

		if err := ctx.Err(); err != nil {
			return ErrCanceled.At(s.At).Wrap(err)
		}

		if err := m.exec(ctx, s.Body); err != nil {
			return err
		}
	}
}

func (m *Machine) eval(ctx context.Context, e Expr) (Value, error) {
	switch e := e.(type) {
	case *IntLit:
		return Int(e.Value), nil

	case *StrLit:
		return Str(e.Value), nil

	case *Ident:
		v, ok := m.vars[e.Name]
		if !ok {
			return Value{}, ErrUndefinedVar.At(e.At).Detail(e.Name)
		}

		return v, nil

	case *UnaryExpr:
		return m.evalUnary(ctx, e)

	case *BinaryExpr:
		return m.evalBinary(ctx, e)

	default:
		return Value{}, nil
	}
}

func (m *Machine) evalUnary(ctx context.Context, e *UnaryExpr) (Value, error) {
	x, err := m.eval(ctx, e.X)
	if err != nil {
		return Value{}, err
	}

	if e.Op == OpNot {
		return Bool(!x.Truthy()), nil
	}

	if !x.IsInt() {
		return Value{}, ErrNotInt.At(e.At).
			With(slog.String("op", e.Op.String()))
	}

	if e.Op == OpNeg {
		return Int(-x.AsInt()), nil
	}

	return x, nil
}

func (m *Machine) evalBinary(ctx context.Context, e *BinaryExpr) (Value, error) {
	x, err := m.eval(ctx, e.X)
	if err != nil {
		return Value{}, err
	}

	// Logical operators evaluate Y only when X does not decide the result.
	switch e.Op {
	case OpAnd:
		if !x.Truthy() {
			return Int(0), nil
		}

		return m.evalTruth(ctx, e.Y)

	case OpOr:
		if x.Truthy() {
			return Int(1), nil
		}

		return m.evalTruth(ctx, e.Y)
	}

	y, err := m.eval(ctx, e.Y)
	if err != nil {
		return Value{}, err
	}

	switch e.Op {
	case OpAdd:
		if x.IsStr() || y.IsStr() {
			return Str(x.String() + y.String()), nil
		}

		return Int(x.AsInt() + y.AsInt()), nil

	case OpSub, OpMul, OpDiv:
		return arith(e, x, y)

	default:
		return compare(e, x, y)
	}
}

func (m *Machine) evalTruth(ctx context.Context, e Expr) (Value, error) {
	v, err := m.eval(ctx, e)
	if err != nil {
		return Value{}, err
	}

	return Bool(v.Truthy()), nil
}

func arith(e *BinaryExpr, x, y Value) (Value, error) {
	if !x.IsInt() || !y.IsInt() {
		return Value{}, ErrNotInt.At(e.At).With(
			slog.String("op", e.Op.String()),
			slog.String("left", x.Kind().String()),
			slog.String("right", y.Kind().String()),
		)
	}

	a, b := x.AsInt(), y.AsInt()

	switch e.Op {
	case OpSub:
		return Int(a - b), nil

	case OpMul:
		return Int(a * b), nil

	default:
		if b == 0 {
			return Value{}, ErrDivisionByZero.At(e.At)
		}

		return Int(a / b), nil
	}
}

func compare(e *BinaryExpr, x, y Value) (Value, error) {
	if x.Kind() != y.Kind() {
		return Value{}, ErrIncompatible.At(e.At).
			Detail(x.Kind().String() + " " + e.Op.String() + " " + y.Kind().String())
	}

	var c int

	if x.IsStr() {
		c = strings.Compare(x.AsStr(), y.AsStr())
	} else {
		c = cmp.Compare(x.AsInt(), y.AsInt())
	}

	switch e.Op {
	case OpEq:
		return Bool(c == 0), nil
	case OpNe:
		return Bool(c != 0), nil
	case OpLt:
		return Bool(c < 0), nil
	case OpLe:
		return Bool(c <= 0), nil
	case OpGt:
		return Bool(c > 0), nil
	default:
		return Bool(c >= 0), nil
	}
}
