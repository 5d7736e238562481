package lang

import (
	"bufio"
	"context"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strconv"
)

// Machine executes programs against a flat variable table.
//
// The table persists across calls to [Machine.Run] and [Machine.Exec] until
// [Machine.Reset]. A Machine is not safe for concurrent use; independent
// Machines share no state.
type Machine struct {
	opts options
	vars map[string]Value
	in   *bufio.Reader
	out  *bufio.Writer
}

// NewMachine returns a Machine with an empty variable table.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		opts: makeOptions(opts...),
		vars: make(map[string]Value),
	}

	if m.opts.stdin != nil {
		m.in = bufio.NewReader(m.opts.stdin)
	}

	m.out = bufio.NewWriter(m.opts.stdout)

	return m
}

// Run executes every statement of prog in order and stops at the first
// error, which is an [*Error] with [PhaseRuntime]. Output is flushed before
// Run returns.
func (m *Machine) Run(ctx context.Context, prog *Program) (err error) {
	m.opts.logger.TraceContext(ctx, "run start",
		slog.Int("statement_count", len(prog.Body)),
		slog.Int("variable_count", len(m.vars)))

	defer func() {
		err = m.flush(err)
		if err != nil {
			m.opts.logger.TraceContext(ctx, "run failed", slog.Any("error", err))

			return
		}

		m.opts.logger.TraceContext(ctx, "run complete",
			slog.Int("variable_count", len(m.vars)))
	}()

	return m.execList(ctx, prog.Body)
}

// Exec executes a single statement and flushes output.
func (m *Machine) Exec(ctx context.Context, s Stmt) error {
	return m.flush(m.exec(ctx, s))
}

// Eval evaluates an expression without executing any statement.
func (m *Machine) Eval(ctx context.Context, e Expr) (Value, error) {
	return m.eval(ctx, e)
}

// Lookup returns the value of a variable and whether it is defined.
func (m *Machine) Lookup(name string) (Value, bool) {
	v, ok := m.vars[name]

	return v, ok
}

// Set stores v in the named variable, creating it if needed.
// It fails with [ErrVarLimit] if the table is full.
func (m *Machine) Set(name string, v Value) error {
	if err := m.declare(name, Position{}); err != nil {
		return err
	}

	m.vars[name] = v

	return nil
}

// Vars returns an iterator over the variable table in name order.
func (m *Machine) Vars() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range m.Names() {
			if !yield(name, m.vars[name]) {
				return
			}
		}
	}
}

// Names returns the defined variable names in sorted order.
func (m *Machine) Names() []string {
	return slices.Sorted(maps.Keys(m.vars))
}

// Len returns the number of defined variables.
func (m *Machine) Len() int { return len(m.vars) }

// Reset clears the variable table.
func (m *Machine) Reset() { clear(m.vars) }

// declare creates the named variable with value 0 if it does not exist.
func (m *Machine) declare(name string, pos Position) error {
	if _, ok := m.vars[name]; ok {
		return nil
	}

	if m.opts.maxVars > 0 && len(m.vars) >= m.opts.maxVars {
		return ErrVarLimit.At(pos).
			Detail(name + " (capacity " + strconv.Itoa(m.opts.maxVars) + ")")
	}

	m.vars[name] = Int(0)

	return nil
}

// flush writes buffered output. An existing error takes precedence over a
// write failure.
func (m *Machine) flush(err error) error {
	if ferr := m.out.Flush(); ferr != nil && err == nil {
		return ErrOutput.Wrap(ferr)
	}

	return err
}
