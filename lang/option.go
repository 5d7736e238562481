package lang

import (
	"io"

	"github.com/ardnew/lscript/log"
)

// Default limits. Each can be overridden per call with the matching Option.
const (
	// DefaultMaxTokens is the token buffer capacity, including the EOF token.
	DefaultMaxTokens = 2048

	// DefaultMaxLexeme is the longest lexeme, in bytes, the lexer accepts.
	DefaultMaxLexeme = 127

	// DefaultMaxVars is the variable table capacity.
	DefaultMaxVars = 512

	// DefaultMaxIterations bounds the body executions of a single loop
	// statement.
	DefaultMaxIterations = 1_000_000
)

// options holds the configuration shared by the lexer, parser, and machine.
type options struct {
	maxTokens     int
	maxLexeme     int
	maxVars       int
	maxIterations int
	stdin         io.Reader
	stdout        io.Writer
	prompt        string
	logger        log.Logger
}

// Option configures tokenizing, parsing, or execution.
type Option func(*options)

func makeOptions(opts ...Option) options {
	o := options{
		maxTokens:     DefaultMaxTokens,
		maxLexeme:     DefaultMaxLexeme,
		maxVars:       DefaultMaxVars,
		maxIterations: DefaultMaxIterations,
		stdout:        io.Discard,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithMaxTokens sets the token buffer capacity. Zero or less disables the
// limit.
func WithMaxTokens(n int) Option {
	return func(o *options) { o.maxTokens = n }
}

// WithMaxLexeme sets the longest accepted lexeme in bytes. Zero or less
// disables the limit.
func WithMaxLexeme(n int) Option {
	return func(o *options) { o.maxLexeme = n }
}

// WithMaxVars sets the variable table capacity. Zero or less disables the
// limit.
func WithMaxVars(n int) Option {
	return func(o *options) { o.maxVars = n }
}

// WithMaxIterations sets the maximum number of body executions of one loop
// statement. Zero or less disables the limit.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = n }
}

// WithStdin sets the reader consumed by input statements.
// Without it, every input statement fails.
func WithStdin(r io.Reader) Option {
	return func(o *options) { o.stdin = r }
}

// WithStdout sets the writer receiving output statements.
// A nil writer discards output.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		if w == nil {
			w = io.Discard
		}

		o.stdout = w
	}
}

// WithPrompt sets the text written to stdout before each input read.
func WithPrompt(prompt string) Option {
	return func(o *options) { o.prompt = prompt }
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}
