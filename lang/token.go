package lang

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	KindEOF Kind = iota
	KindUnknown
	KindNumber
	KindString
	KindIdent

	KindPlus   // +
	KindMinus  // -
	KindStar   // *
	KindSlash  // /
	KindAssign // =
	KindEq     // ==
	KindNe     // !=
	KindLt     // <
	KindLe     // <=
	KindGt     // >
	KindGe     // >=
	KindLParen // (
	KindRParen // )
	KindLBrace // {
	KindRBrace // }
	KindSemi   // ;
	KindComma  // ,
	KindAnd    // &&
	KindOr     // ||
	KindNot    // !

	KindIf
	KindElse
	KindLoop
	KindOutput
	KindInput
)

var kindNames = [...]string{
	KindEOF:     "end of input",
	KindUnknown: "unknown",
	KindNumber:  "number",
	KindString:  "string",
	KindIdent:   "identifier",
	KindPlus:    "+",
	KindMinus:   "-",
	KindStar:    "*",
	KindSlash:   "/",
	KindAssign:  "=",
	KindEq:      "==",
	KindNe:      "!=",
	KindLt:      "<",
	KindLe:      "<=",
	KindGt:      ">",
	KindGe:      ">=",
	KindLParen:  "(",
	KindRParen:  ")",
	KindLBrace:  "{",
	KindRBrace:  "}",
	KindSemi:    ";",
	KindComma:   ",",
	KindAnd:     "&&",
	KindOr:      "||",
	KindNot:     "!",
	KindIf:      "if",
	KindElse:    "else",
	KindLoop:    "loop",
	KindOutput:  "output",
	KindInput:   "input",
}

// String returns the operator symbol, keyword, or class name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool { return k >= KindIf && k <= KindInput }

// keywords maps each reserved word to its token kind.
var keywords = map[string]Kind{
	"if":     KindIf,
	"else":   KindElse,
	"loop":   KindLoop,
	"output": KindOutput,
	"input":  KindInput,
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	return []string{"if", "else", "loop", "output", "input"}
}

// Position is a location in source text.
// Line and Column are 1-based; Offset is the 0-based byte offset.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"col"    yaml:"col"`
}

// IsValid reports whether p refers to a real source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// String formats the position as "line L, col C".
func (p Position) String() string {
	return fmt.Sprintf("line %d, col %d", p.Line, p.Column)
}

// Token is a single lexical unit.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

// String returns a short description of the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case KindEOF:
		return t.Kind.String()
	case KindString:
		return strconv.Quote(t.Lexeme)
	default:
		return t.Lexeme
	}
}
