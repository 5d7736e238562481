package lang

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Preset errors.
var (
	ErrPresetCompile = newError(PhaseNone, "compile preset")
	ErrPresetRun     = newError(PhaseNone, "evaluate preset")
	ErrPresetType    = newError(PhaseNone, "unsupported preset type")
	ErrPresetName    = newError(PhaseNone, "invalid variable name")
)

// Preset evaluates an expr-lang expression with vars as its environment and
// converts the result to a [Value]. Integers and strings map directly, bool
// maps to 0 or 1, and a float must be integral.
func Preset(name, source string, vars map[string]Value) (Value, error) {
	env := make(map[string]any, len(vars))
	for k, v := range vars {
		env[k] = v.Native()
	}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return Value{}, ErrPresetCompile.Wrap(err).
			With(slog.String("name", name), slog.String("source", source))
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return Value{}, ErrPresetRun.Wrap(err).
			With(slog.String("name", name), slog.String("source", source))
	}

	v, ok := toValue(result)
	if !ok {
		return Value{}, ErrPresetType.
			Detail(fmt.Sprintf("%s: %T", name, result)).
			With(slog.String("source", source))
	}

	return v, nil
}

// Define evaluates source with [Preset] against the current variables and
// stores the result in name.
func (m *Machine) Define(ctx context.Context, name, source string) error {
	if !IsIdentifier(name) {
		return ErrPresetName.Detail(strconv.Quote(name))
	}

	vars := make(map[string]Value, len(m.vars))
	for k, v := range m.Vars() {
		vars[k] = v
	}

	v, err := Preset(name, source, vars)
	if err != nil {
		return err
	}

	m.opts.logger.TraceContext(ctx, "define",
		slog.String("name", name),
		slog.Any("value", v))

	return m.Set(name, v)
}

func toValue(x any) (Value, bool) {
	switch x := x.(type) {
	case int:
		return Int(int64(x)), true
	case int8:
		return Int(int64(x)), true
	case int16:
		return Int(int64(x)), true
	case int32:
		return Int(int64(x)), true
	case int64:
		return Int(x), true
	case uint:
		return Int(int64(x)), true
	case uint8:
		return Int(int64(x)), true
	case uint16:
		return Int(int64(x)), true
	case uint32:
		return Int(int64(x)), true
	case uint64:
		return Int(int64(x)), true
	case float32:
		return toValue(float64(x))
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
			return Value{}, false
		}

		return Int(int64(x)), true
	case bool:
		return Bool(x), true
	case string:
		return Str(x), true
	default:
		return Value{}, false
	}
}
