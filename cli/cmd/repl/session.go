package repl

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/lscript/lang"
	"github.com/ardnew/lscript/log"
)

// session evaluates REPL input against one machine.
//
// Lines that end inside an unfinished statement or string are held until a
// later line completes them.
type session struct {
	machine *lang.Machine
	out     *bytes.Buffer
	opts    []lang.Option
	logger  log.Logger
	pending []string
}

func newSession(logger log.Logger, opts ...lang.Option) *session {
	out := new(bytes.Buffer)

	// Script output and expression results share out so they print in order.
	opts = append(opts, lang.WithStdout(out), lang.WithLogger(logger))

	return &session{
		machine: lang.NewMachine(opts...),
		out:     out,
		opts:    opts,
		logger:  logger,
	}
}

// incomplete reports whether err means more input could complete the source.
func incomplete(err error) bool {
	return errors.Is(err, lang.ErrUnexpectedEOF) ||
		errors.Is(err, lang.ErrUnterminatedString)
}

// continuing reports whether earlier lines are waiting for completion.
func (s *session) continuing() bool { return len(s.pending) > 0 }

// eval compiles line, joined to any pending lines, and executes it.
// A missing semicolon at the end of the input is implied.
//
// The returned text is everything the statements wrote followed by the value
// of each bare expression statement. When more is true the line was held for
// continuation and nothing ran.
func (s *session) eval(ctx context.Context, line string) (text string, more bool, err error) {
	src := strings.Join(append(s.pending, line), "\n")

	prog, err := lang.Compile(ctx, src, s.opts...)
	if err != nil && incomplete(err) {
		// A final statement may omit its semicolon.
		if p, perr := lang.Compile(ctx, src+";", s.opts...); perr == nil {
			prog, err = p, nil
		}
	}

	if err != nil {
		if incomplete(err) {
			s.pending = append(s.pending, line)

			s.logger.TraceContext(ctx, "repl continue",
				slog.Int("pending_lines", len(s.pending)))

			return "", true, nil
		}

		s.pending = nil

		return "", false, err
	}

	s.pending = nil

	defer s.out.Reset()

	for _, stmt := range prog.Body {
		if es, ok := stmt.(*lang.ExprStmt); ok {
			v, err := s.machine.Eval(ctx, es.X)
			if err != nil {
				return s.out.String(), false, err
			}

			s.out.WriteString(v.Quote())
			s.out.WriteByte('\n')

			continue
		}

		if err := s.machine.Exec(ctx, stmt); err != nil {
			return s.out.String(), false, err
		}
	}

	return s.out.String(), false, nil
}

// cancel discards pending lines.
func (s *session) cancel() { s.pending = nil }

// reset clears the variable table and pending lines.
func (s *session) reset() {
	s.machine.Reset()
	s.pending = nil
}

// vars renders the variable table one "name = value" per line.
func (s *session) vars() string {
	var b strings.Builder

	for name, v := range s.machine.Vars() {
		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(v.Quote())
		b.WriteByte('\n')
	}

	return b.String()
}

// names returns the defined variable names.
func (s *session) names() []string { return s.machine.Names() }
