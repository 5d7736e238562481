package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Tokenize converts source text into a token sequence terminated by exactly
// one EOF token. Scanning stops at the first lexical error, in which case the
// returned error is an [*Error] with [PhaseLex].
func Tokenize(ctx context.Context, src string, opts ...Option) ([]Token, error) {
	o := makeOptions(opts...)

	lx := &lexer{
		src:  src,
		line: 1,
		col:  1,
		max:  o.maxTokens,
		lim:  o.maxLexeme,
	}

	toks, err := lx.run()
	if err != nil {
		o.logger.TraceContext(ctx, "tokenize failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "tokenize complete",
		slog.Int("source_bytes", len(src)),
		slog.Int("token_count", len(toks)))

	return toks, nil
}

// lexer holds the scanner state.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
	max  int // token capacity, <= 0 for unlimited
	lim  int // lexeme length limit, <= 0 for unlimited
	out  []Token
}

func (lx *lexer) run() ([]Token, error) {
	for !lx.eof() {
		c := lx.peek()

		if isSpace(c) {
			lx.advance()

			continue
		}

		start := lx.position()

		var err error

		switch {
		case isDigit(c):
			err = lx.scanWhile(KindNumber, start, isDigit)

		case isIdentStart(c):
			err = lx.scanWord(start)

		case c == '"':
			err = lx.scanString(start)

		default:
			err = lx.scanOperator(start)
		}

		if err != nil {
			return nil, err
		}
	}

	if err := lx.emit(KindEOF, "", lx.position()); err != nil {
		return nil, err
	}

	return lx.out, nil
}

func (lx *lexer) emit(kind Kind, lexeme string, pos Position) error {
	if lx.max > 0 && len(lx.out) >= lx.max {
		return ErrTokenOverflow.At(pos).
			With(slog.Int("capacity", lx.max))
	}

	if lx.lim > 0 && len(lexeme) > lx.lim {
		return ErrTokenTooLong.At(pos).
			Detail("exceeds " + strconv.Itoa(lx.lim) + " bytes").
			With(slog.Int("length", len(lexeme)))
	}

	lx.out = append(lx.out, Token{Kind: kind, Lexeme: lexeme, Pos: pos})

	return nil
}

// scanWhile consumes the longest run of bytes satisfying ok.
func (lx *lexer) scanWhile(kind Kind, start Position, ok func(byte) bool) error {
	for !lx.eof() && ok(lx.peek()) {
		lx.advance()
	}

	return lx.emit(kind, lx.src[start.Offset:lx.pos], start)
}

// scanWord consumes an identifier and classifies reserved words.
func (lx *lexer) scanWord(start Position) error {
	for !lx.eof() && isIdentPart(lx.peek()) {
		lx.advance()
	}

	word := lx.src[start.Offset:lx.pos]

	kind, ok := keywords[word]
	if !ok {
		kind = KindIdent
	}

	return lx.emit(kind, word, start)
}

// scanString consumes a double-quoted literal, decoding escapes.
// The token lexeme holds the decoded text without quotes.
func (lx *lexer) scanString(start Position) error {
	lx.advance() // skip opening quote

	var sb strings.Builder

	for !lx.eof() {
		ch := lx.advance()

		switch ch {
		case '"':
			return lx.emit(KindString, sb.String(), start)

		case '\\':
			if lx.eof() {
				return ErrUnterminatedString.At(start)
			}

			sb.WriteByte(unescape(lx.advance()))

		default:
			sb.WriteByte(ch)
		}
	}

	return ErrUnterminatedString.At(start)
}

func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return ch
	}
}

// single maps one-character operators and punctuation to their kinds.
var single = map[byte]Kind{
	'+': KindPlus,
	'-': KindMinus,
	'*': KindStar,
	'/': KindSlash,
	'(': KindLParen,
	')': KindRParen,
	'{': KindLBrace,
	'}': KindRBrace,
	';': KindSemi,
	',': KindComma,
}

// scanOperator consumes an operator or punctuation token. Two-character
// operators are matched greedily.
func (lx *lexer) scanOperator(start Position) error {
	c := lx.peek()

	if kind, ok := single[c]; ok {
		lx.advance()

		return lx.emit(kind, string(c), start)
	}

	// orEq returns eq if the next byte is '=', otherwise alone.
	orEq := func(alone, eq Kind) error {
		lx.advance()

		if lx.match('=') {
			return lx.emit(eq, eq.String(), start)
		}

		return lx.emit(alone, alone.String(), start)
	}

	// pair requires the operator character to appear twice.
	pair := func(kind Kind) error {
		lx.advance()

		if lx.match(c) {
			return lx.emit(kind, kind.String(), start)
		}

		return ErrIncompleteOperator.At(start).
			Detail("expected '" + kind.String() + "'")
	}

	switch c {
	case '!':
		return orEq(KindNot, KindNe)
	case '=':
		return orEq(KindAssign, KindEq)
	case '<':
		return orEq(KindLt, KindLe)
	case '>':
		return orEq(KindGt, KindGe)
	case '&':
		return pair(KindAnd)
	case '|':
		return pair(KindOr)
	}

	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])

	return ErrUnknownChar.At(start).
		Detail(strconv.QuoteRune(r))
}

// Helper methods

func (lx *lexer) eof() bool { return lx.pos >= len(lx.src) }

func (lx *lexer) peek() byte {
	if lx.eof() {
		return 0
	}

	return lx.src[lx.pos]
}

func (lx *lexer) advance() byte {
	c := lx.src[lx.pos]

	lx.pos++
	if c == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	return c
}

func (lx *lexer) match(c byte) bool {
	if !lx.eof() && lx.peek() == c {
		lx.advance()

		return true
	}

	return false
}

func (lx *lexer) position() Position {
	return Position{Offset: lx.pos, Line: lx.line, Column: lx.col}
}

// Character classification (ASCII only)

// IsIdentifier reports whether s can name a variable: an identifier that is
// not a keyword.
func IsIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}

	_, reserved := keywords[s]

	return !reserved
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}

	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isIdentStart(c byte) bool { return isLetter(c) || c == '_' }

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
