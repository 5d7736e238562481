// Package lang implements lscript, a small line-oriented imperative language,
// as a three-stage pipeline: [Tokenize] scans source text into tokens, [Parse]
// builds an immutable syntax tree, and a [Machine] walks that tree against a
// flat variable table.
//
// # Grammar
//
// Informal EBNF:
//
//	Program    → Stmt* EOF
//	Stmt       → Output | Input | If | Loop | Block | Assign | ExprStmt
//	Output     → 'output' '(' (Expr (',' Expr)*)? ')' ';'
//	Input      → 'input' '(' Ident ')' ';'
//	If         → 'if' '(' Expr ')' Body ('else' Body)?
//	Loop       → 'loop' '(' Expr ')' Body
//	Body       → Block | Stmt
//	Block      → '{' Stmt* '}'
//	Assign     → Ident '=' Expr ';'
//	ExprStmt   → Expr ';'
//	Expr       → Or
//	Or         → And ('||' And)*
//	And        → Equality ('&&' Equality)*
//	Equality   → Relation (('==' | '!=') Relation)*
//	Relation   → Additive (('<' | '<=' | '>' | '>=') Additive)*
//	Additive   → Term (('+' | '-') Term)*
//	Term       → Unary (('*' | '/') Unary)*
//	Unary      → ('!' | '-' | '+') Unary | Primary
//	Primary    → Number | String | Ident | '(' Expr ')'
//
// String literals are double-quoted; \n, \t, and \r are decoded and any other
// escaped character stands for itself.
//
// # Example
//
//	n = 1;
//	loop (n <= 3) {
//	    if (n == 2) output("two"); else output(n);
//	    n = n + 1;
//	}
//
// # Values
//
// A [Value] is an int64 or a string. The + operator adds integers and
// concatenates as soon as either operand is a string. The other arithmetic
// operators require integers, comparisons require operands of the same type,
// and && and || short-circuit and always yield 0 or 1.
//
// # Errors
//
// Every stage stops at its first failure and returns an [*Error] carrying the
// [Phase] and source [Position]. Compare against the package Err* sentinels
// with [errors.Is]:
//
//	if errors.Is(err, lang.ErrDivisionByZero) { ... }
//
// [Error.Diagnostic] renders the single-line report shown to users.
//
// # Limits
//
// Token count, lexeme length, variable count, and loop iterations are bounded
// by defaults that each have a matching [Option].
package lang
