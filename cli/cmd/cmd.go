package cmd

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lscript/lang"
	"github.com/ardnew/lscript/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Streams are the standard streams a command reads and writes.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type streamsKey struct{}

// WithStreams returns a context whose commands use s instead of the process
// streams. Nil fields keep the process stream.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.Stdin == nil {
		s.Stdin = os.Stdin
	}

	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}

	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}

	return s
}

// Vars returns the kong variables referenced by command flag defaults.
func Vars() kong.Vars {
	return kong.Vars{
		"maxTokens":     strconv.Itoa(lang.DefaultMaxTokens),
		"maxLexeme":     strconv.Itoa(lang.DefaultMaxLexeme),
		"maxVars":       strconv.Itoa(lang.DefaultMaxVars),
		"maxIterations": strconv.Itoa(lang.DefaultMaxIterations),
	}
}

// Limits are the interpreter resource flags shared by commands that compile
// or run scripts.
type Limits struct {
	MaxTokens     int `default:"${maxTokens}"     help:"Token buffer capacity, 0 for unlimited."          group:"limits"`
	MaxLexeme     int `default:"${maxLexeme}"     help:"Longest accepted lexeme in bytes, 0 for unlimited." group:"limits"`
	MaxVars       int `default:"${maxVars}"       help:"Variable table capacity, 0 for unlimited."        group:"limits"`
	MaxIterations int `default:"${maxIterations}" help:"Body executions per loop, 0 for unlimited."       group:"limits"`
}

func (l Limits) options() []lang.Option {
	return []lang.Option{
		lang.WithMaxTokens(l.MaxTokens),
		lang.WithMaxLexeme(l.MaxLexeme),
		lang.WithMaxVars(l.MaxVars),
		lang.WithMaxIterations(l.MaxIterations),
	}
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is a named script input.
type source struct {
	name string
	path string // empty for stdin
}

func (s source) attr() slog.Attr { return slog.String("source", s.name) }

// sources is an ordered set of script inputs.
type sources struct {
	list  []source
	stdin io.Reader // non-nil if stdin is one of the sources
}

// makeSources resolves names into sources.
//
// Paths naming the same file, through symlinks or different relative paths,
// are kept once at their first position. Every "-" collapses into a single
// stdin source placed last. No names means stdin alone.
func makeSources(names []string, stdin io.Reader) (*sources, error) {
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	var (
		srcs sources
		seen []os.FileInfo
	)

	for _, name := range names {
		if name == stdinSource {
			srcs.stdin = stdin

			continue
		}

		info, err := os.Stat(name)
		if err != nil {
			return nil, pkg.ErrReadSource.Wrap(err)
		}

		if slices.ContainsFunc(seen, func(fi os.FileInfo) bool {
			return os.SameFile(fi, info)
		}) {
			continue
		}

		seen = append(seen, info)
		srcs.list = append(srcs.list, source{name: name, path: name})
	}

	if srcs.stdin != nil {
		srcs.list = append(srcs.list, source{name: stdinSource})
	}

	return &srcs, nil
}

// usesStdin reports whether script text is read from stdin.
func (s *sources) usesStdin() bool { return s.stdin != nil }

// All opens each source in order and yields its reader. Files are closed
// when the loop body returns. An open failure is yielded once and ends the
// sequence.
func (s *sources) All() iter.Seq2[source, io.Reader] {
	return func(yield func(source, io.Reader) bool) {
		for _, src := range s.list {
			if src.path == "" {
				if !yield(src, s.stdin) {
					return
				}

				continue
			}

			f, err := os.Open(src.path)
			if err != nil {
				yield(src, errReader{pkg.ErrReadSource.Wrap(err)})

				return
			}

			ok := yield(src, f)
			_ = f.Close()

			if !ok {
				return
			}
		}
	}
}

// errReader fails every read with err.
type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

// compile reads and compiles one source through the parse cache.
func compile(ctx context.Context, r io.Reader, opts ...lang.Option) (*lang.Program, error) {
	if er, ok := r.(errReader); ok {
		return nil, er.err
	}

	return lang.ParseReader(ctx, r, opts...)
}
