package lang

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/goccy/go-yaml"
)

// ValueKind identifies the dynamic type of a [Value].
type ValueKind int

const (
	KindInt ValueKind = iota
	KindStr
)

// String returns the type name used in diagnostics.
func (k ValueKind) String() string {
	if k == KindStr {
		return "string"
	}

	return "int"
}

// Value is a runtime integer or string. The zero Value is the integer 0.
// Values are immutable and copied by assignment.
type Value struct {
	kind ValueKind
	num  int64
	str  string
}

// Int returns an integer value.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// Str returns a string value.
func Str(s string) Value { return Value{kind: KindStr, str: s} }

// Bool returns the integer 1 if b is true, otherwise 0.
func Bool(b bool) Value {
	if b {
		return Int(1)
	}

	return Int(0)
}

// Kind returns the dynamic type of v.
func (v Value) Kind() ValueKind { return v.kind }

// IsInt reports whether v holds an integer.
func (v Value) IsInt() bool { return v.kind == KindInt }

// IsStr reports whether v holds a string.
func (v Value) IsStr() bool { return v.kind == KindStr }

// AsInt returns the integer held by v, or 0 for a string.
func (v Value) AsInt() int64 { return v.num }

// AsStr returns the string held by v, or "" for an integer.
func (v Value) AsStr() string { return v.str }

// Truthy reports whether v is a nonzero integer or a non-empty string.
func (v Value) Truthy() bool {
	if v.kind == KindStr {
		return v.str != ""
	}

	return v.num != 0
}

// String returns the printed form of v: decimal for integers, verbatim for
// strings.
func (v Value) String() string {
	if v.kind == KindStr {
		return v.str
	}

	return strconv.FormatInt(v.num, 10)
}

// Quote returns v in source form; strings are quoted and escaped.
func (v Value) Quote() string {
	if v.kind == KindStr {
		return quote(v.str)
	}

	return v.String()
}

// Native returns v as an int64 or a string.
func (v Value) Native() any {
	if v.kind == KindStr {
		return v.str
	}

	return v.num
}

// MarshalJSON encodes v as a JSON number or string.
func (v Value) MarshalJSON() ([]byte, error) { return json.Marshal(v.Native()) }

// MarshalYAML encodes v as a YAML integer or string scalar.
func (v Value) MarshalYAML() ([]byte, error) {
	if v.kind == KindStr {
		return yaml.Marshal(yamlSafe(v.str))
	}

	return yaml.Marshal(v.num)
}

// Equal reports whether v and w have the same type and content.
func (v Value) Equal(w Value) bool { return v == w }

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	if v.kind == KindStr {
		return slog.StringValue(v.str)
	}

	return slog.Int64Value(v.num)
}

// quote encodes s as a string literal the lexer decodes back to s.
func quote(s string) string {
	b := make([]byte, 0, len(s)+2)
	b = append(b, '"')

	for i := range len(s) {
		switch c := s[i]; c {
		case '"', '\\':
			b = append(b, '\\', c)
		case '\n':
			b = append(b, '\\', 'n')
		case '\t':
			b = append(b, '\\', 't')
		case '\r':
			b = append(b, '\\', 'r')
		default:
			b = append(b, c)
		}
	}

	return string(append(b, '"'))
}
