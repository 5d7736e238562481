package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Phase identifies the pipeline stage that produced an [Error].
type Phase int

const (
	PhaseNone Phase = iota
	PhaseLex
	PhaseParse
	PhaseRuntime
)

// String returns the short phase name used in diagnostics.
func (p Phase) String() string {
	switch p {
	case PhaseLex:
		return "lex"

	case PhaseParse:
		return "parse"

	case PhaseRuntime:
		return "runtime"

	default:
		return "none"
	}
}

// Lexical errors.
var (
	ErrUnknownChar        = newError(PhaseLex, "unknown character")
	ErrUnterminatedString = newError(PhaseLex, "unterminated string")
	ErrIncompleteOperator = newError(PhaseLex, "incomplete operator")
	ErrTokenOverflow      = newError(PhaseLex, "token buffer overflow")
	ErrTokenTooLong       = newError(PhaseLex, "token too long")
)

// Syntactic errors.
var (
	ErrUnexpectedToken = newError(PhaseParse, "unexpected token")
	ErrUnexpectedEOF   = newError(PhaseParse, "unexpected end of input")
	ErrInvalidPrimary  = newError(PhaseParse, "invalid primary expression")
	ErrIntRange        = newError(PhaseParse, "integer literal out of range")
)

// Runtime errors.
var (
	ErrUndefinedVar   = newError(PhaseRuntime, "undefined variable")
	ErrNotInt         = newError(PhaseRuntime, "operand is not int")
	ErrDivisionByZero = newError(PhaseRuntime, "division by zero")
	ErrIncompatible   = newError(PhaseRuntime, "incompatible operand types")
	ErrVarLimit       = newError(PhaseRuntime, "variable limit exceeded")
	ErrInput          = newError(PhaseRuntime, "input failed")
	ErrLoopLimit      = newError(PhaseRuntime, "loop iteration limit exceeded")
	ErrCanceled       = newError(PhaseRuntime, "execution canceled")
	ErrOutput         = newError(PhaseRuntime, "output failed")
)

// Error is a lexical, syntactic, or runtime failure of a script.
// It implements both error and slog.LogValuer.
//
// The package-level Err* values are sentinels: every reported error is a copy
// of one of them with a position and optional detail attached, and matches its
// sentinel with [errors.Is].
type Error struct {
	Phase Phase
	Pos   Position

	msg   string
	err   error       // Wrapped detail or cause (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

func newError(phase Phase, msg string) *Error {
	return &Error{Phase: phase, msg: msg}
}

// At returns a copy of e located at pos.
func (e *Error) At(pos Position) *Error {
	c := *e
	c.Pos = pos

	return &c
}

// Wrap returns a copy of e wrapping err as its detail or cause.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// Detail returns a copy of e with a textual detail appended to its message.
func (e *Error) Detail(detail string) *Error {
	return e.Wrap(errors.New(detail))
}

// With returns a copy of e with additional structured logging attributes.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	c.attrs = append(c.attrs, e.attrs...)
	c.attrs = append(c.attrs, attrs...)

	return &c
}

// Message returns the error text without its source position.
func (e *Error) Message() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Error implements the error interface.
func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Message()
	}

	return e.Pos.String() + ": " + e.Message()
}

// Diagnostic formats e as the single-line report shown to users:
//
//	[<phase> error] line <L>, col <C>: <message>
//
// The position is omitted if e has none.
func (e *Error) Diagnostic() string {
	return "[" + e.Phase.String() + " error] " + e.Error()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.msg == e.msg && (t.Phase == PhaseNone || t.Phase == e.Phase)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	attrs = append(attrs, slog.String("phase", e.Phase.String()))

	if e.Pos.IsValid() {
		attrs = append(attrs,
			slog.Int("line", e.Pos.Line),
			slog.Int("col", e.Pos.Column),
		)
	}

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}
