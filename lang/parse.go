package lang

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
)

// Parse builds a [Program] from a token sequence produced by [Tokenize].
// Parsing stops at the first grammar violation, in which case the returned
// error is an [*Error] with [PhaseParse] located at the offending token.
//
// A sequence that does not end with an EOF token is treated as if it did.
func Parse(ctx context.Context, toks []Token, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	if n := len(toks); n == 0 || toks[n-1].Kind != KindEOF {
		var end Position
		if n > 0 {
			end = toks[n-1].Pos
		} else {
			end = Position{Line: 1, Column: 1}
		}

		toks = append(toks[:n:n], Token{Kind: KindEOF, Pos: end})
	}

	p := &parser{toks: toks}

	prog, err := p.parseProgram()
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(toks)),
		slog.Int("statement_count", len(prog.Body)))

	return prog, nil
}

// Compile tokenizes and parses src.
func Compile(ctx context.Context, src string, opts ...Option) (*Program, error) {
	toks, err := Tokenize(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, toks, opts...)
}

// parser holds the parser state.
type parser struct {
	toks []Token
	pos  int
}

// parseProgram parses statements until EOF.
func (p *parser) parseProgram() (*Program, error) {
	prog := new(Program)

	for p.peek().Kind != KindEOF {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		prog.Body = append(prog.Body, s)
	}

	return prog, nil
}

// parseStatement dispatches on the leading token.
func (p *parser) parseStatement() (Stmt, error) {
	switch p.peek().Kind {
	case KindOutput:
		return p.parsePrint()

	case KindInput:
		return p.parseInput()

	case KindIf:
		return p.parseIf()

	case KindLoop:
		return p.parseLoop()

	case KindLBrace:
		return p.parseBlock()

	default:
		return p.parseAssignOrExpr()
	}
}

// parseBlock parses '{' Stmt* '}' or, without a brace, a single statement.
func (p *parser) parseBlock() (Stmt, error) {
	if !p.match(KindLBrace) {
		return p.parseStatement()
	}

	var list []Stmt

	for k := p.peek().Kind; k != KindRBrace && k != KindEOF; k = p.peek().Kind {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		list = append(list, s)
	}

	closing, err := p.expect(KindRBrace, "'}' to close block")
	if err != nil {
		return nil, err
	}

	return &BlockStmt{At: closing.Pos, List: list}, nil
}

// parseAssignOrExpr parses Ident '=' Expr ';' when the lookahead confirms an
// assignment, otherwise Expr ';'.
func (p *parser) parseAssignOrExpr() (Stmt, error) {
	if p.peek().Kind == KindIdent && p.peekAt(1).Kind == KindAssign {
		id := p.next()
		p.next() // '='

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(KindSemi, "';' after assignment"); err != nil {
			return nil, err
		}

		return &AssignStmt{At: id.Pos, Name: id.Lexeme, Value: value}, nil
	}

	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindSemi, "';' after expression"); err != nil {
		return nil, err
	}

	return &ExprStmt{X: x}, nil
}

// parsePrint parses 'output' '(' [Expr (',' Expr)*] ')' ';'.
func (p *parser) parsePrint() (Stmt, error) {
	kw := p.next()

	if _, err := p.expect(KindLParen, "'(' after 'output'"); err != nil {
		return nil, err
	}

	var args []Expr

	if p.peek().Kind != KindRParen {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			args = append(args, e)

			if !p.match(KindComma) {
				break
			}
		}
	}

	if _, err := p.expect(KindRParen, "')'"); err != nil {
		return nil, err
	}

	if _, err := p.expect(KindSemi, "';' after 'output(...)'"); err != nil {
		return nil, err
	}

	return &PrintStmt{At: kw.Pos, Args: args}, nil
}

// parseInput parses 'input' '(' Ident ')' ';'.
func (p *parser) parseInput() (Stmt, error) {
	kw := p.next()

	if _, err := p.expect(KindLParen, "'(' after 'input'"); err != nil {
		return nil, err
	}

	id, err := p.expect(KindIdent, "identifier in 'input(...)'")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindRParen, "')'"); err != nil {
		return nil, err
	}

	if _, err := p.expect(KindSemi, "';' after 'input(...)'"); err != nil {
		return nil, err
	}

	return &InputStmt{At: kw.Pos, Name: id.Lexeme}, nil
}

// parseIf parses 'if' '(' Expr ')' Block ['else' Block].
func (p *parser) parseIf() (Stmt, error) {
	kw := p.next()

	cond, err := p.parseCondition("if")
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	n := &IfStmt{At: kw.Pos, Cond: cond, Then: then}

	if p.match(KindElse) {
		if n.Else, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// parseLoop parses 'loop' '(' Expr ')' Block.
func (p *parser) parseLoop() (Stmt, error) {
	kw := p.next()

	cond, err := p.parseCondition("loop")
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &LoopStmt{At: kw.Pos, Cond: cond, Body: body}, nil
}

// parseCondition parses the parenthesized condition following keyword.
func (p *parser) parseCondition(keyword string) (Expr, error) {
	if _, err := p.expect(KindLParen, "'(' after '"+keyword+"'"); err != nil {
		return nil, err
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindRParen, "')'"); err != nil {
		return nil, err
	}

	return cond, nil
}

// binaryLevels lists the binary operators of each precedence level, from
// lowest to highest binding power. All levels are left-associative.
var binaryLevels = []map[Kind]Operator{
	{KindOr: OpOr},
	{KindAnd: OpAnd},
	{KindEq: OpEq, KindNe: OpNe},
	{KindLt: OpLt, KindLe: OpLe, KindGt: OpGt, KindGe: OpGe},
	{KindPlus: OpAdd, KindMinus: OpSub},
	{KindStar: OpMul, KindSlash: OpDiv},
}

// unaryOps lists the prefix operators.
var unaryOps = map[Kind]Operator{
	KindNot:   OpNot,
	KindMinus: OpNeg,
	KindPlus:  OpPos,
}

func (p *parser) parseExpr() (Expr, error) { return p.parseBinary(0) }

// parseBinary parses one precedence level, delegating operands to the next
// tighter level.
func (p *parser) parseBinary(level int) (Expr, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()

		op, ok := binaryLevels[level][tok.Kind]
		if !ok {
			return left, nil
		}

		p.next()

		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{At: tok.Pos, Op: op, X: left, Y: right}
	}
}

// parseUnary parses a right-associative chain of prefix operators.
func (p *parser) parseUnary() (Expr, error) {
	tok := p.peek()

	op, ok := unaryOps[tok.Kind]
	if !ok {
		return p.parsePrimary()
	}

	p.next()

	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &UnaryExpr{At: tok.Pos, Op: op, X: x}, nil
}

// parsePrimary parses a literal, identifier, or parenthesized expression.
func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case KindNumber:
		p.next()

		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, ErrIntRange.At(tok.Pos).Detail(tok.Lexeme)
			}

			return nil, ErrInvalidPrimary.At(tok.Pos).Wrap(err)
		}

		return &IntLit{At: tok.Pos, Text: tok.Lexeme, Value: v}, nil

	case KindString:
		p.next()

		return &StrLit{At: tok.Pos, Value: tok.Lexeme}, nil

	case KindIdent:
		p.next()

		return &Ident{At: tok.Pos, Name: tok.Lexeme}, nil

	case KindLParen:
		p.next()

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(KindRParen, "')'"); err != nil {
			return nil, err
		}

		return e, nil

	case KindEOF:
		return nil, ErrUnexpectedEOF.At(tok.Pos).Detail("expected expression")

	default:
		return nil, ErrInvalidPrimary.At(tok.Pos).
			Detail("found '" + tok.Lexeme + "'")
	}
}

// Helper methods

func (p *parser) peek() Token { return p.peekAt(0) }

// peekAt returns the token i positions ahead, or the final EOF token.
func (p *parser) peekAt(i int) Token {
	if j := p.pos + i; j < len(p.toks) {
		return p.toks[j]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}

	return tok
}

func (p *parser) match(kind Kind) bool {
	if p.peek().Kind == kind {
		p.next()

		return true
	}

	return false
}

// expect consumes a token of the given kind or reports what was expected.
func (p *parser) expect(kind Kind, what string) (Token, error) {
	tok := p.peek()
	if tok.Kind == kind {
		p.next()

		return tok, nil
	}

	if tok.Kind == KindEOF {
		return tok, ErrUnexpectedEOF.At(tok.Pos).
			Detail("expected " + what).
			With(slog.String("expected", kind.String()))
	}

	return tok, ErrUnexpectedToken.At(tok.Pos).
		Detail("expected " + what + " (found '" + tok.Lexeme + "')").
		With(
			slog.String("expected", kind.String()),
			slog.String("found", tok.Kind.String()),
		)
}
