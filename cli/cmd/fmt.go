package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/lscript/lang"
	"github.com/ardnew/lscript/log"
	"github.com/ardnew/lscript/pkg"
)

// Fmt parses a script and writes it in the chosen representation.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical lscript source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Print the syntax tree one node per line."`
	Tokens Tokens `cmd:""                    help:"List the tokens of the script."`
}

// Script is the script argument shared by every fmt subcommand.
type Script struct {
	Limits `embed:""`

	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source" type:"existingfile"`
}

// read returns the source text of the script.
func (in *Script) read(ctx context.Context) (string, error) {
	srcs, err := makeSources([]string{in.Source}, streamsFrom(ctx).Stdin)
	if err != nil {
		return "", err
	}

	var text []byte

	for _, r := range srcs.All() {
		if er, ok := r.(errReader); ok {
			return "", er.err
		}

		if text, err = io.ReadAll(r); err != nil {
			return "", pkg.ErrReadSource.Wrap(err)
		}
	}

	return string(text), nil
}

// program compiles the script through the parse cache.
func (in *Script) program(ctx context.Context, format string) (*lang.Program, error) {
	srcs, err := makeSources([]string{in.Source}, streamsFrom(ctx).Stdin)
	if err != nil {
		return nil, err
	}

	opts := append(in.options(), lang.WithLogger(log.With(
		slog.String("command", "fmt"),
		slog.String("format", format),
	)))

	var prog *lang.Program

	for _, r := range srcs.All() {
		if prog, err = compile(ctx, r, opts...); err != nil {
			return nil, err
		}
	}

	return prog, nil
}

func writeFailed(format string, err error) error {
	if err == nil {
		return nil
	}

	return ErrWriteOutput.With(slog.String("format", format)).Wrap(err)
}

// Native formats a script as canonical lscript source.
type Native struct {
	Script `embed:""`

	Indent int `default:"2" help:"Indent width, 0 for single-line blocks." short:"i"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) error {
	prog, err := f.program(ctx, "native")
	if err != nil {
		return err
	}

	return writeFailed("native", lang.Format(streamsFrom(ctx).Stdout, prog, f.Indent))
}

// JSON writes the syntax tree of a script as JSON.
type JSON struct {
	Script `embed:""`

	Indent int `default:"2" help:"Indent width, 0 for compact output." short:"i"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	prog, err := j.program(ctx, "json")
	if err != nil {
		return err
	}

	return writeFailed("json", lang.FormatJSON(streamsFrom(ctx).Stdout, prog, j.Indent))
}

// YAML writes the syntax tree of a script as YAML.
type YAML struct {
	Script `embed:""`

	Indent int `default:"2" help:"Indent width, 0 for flow style." short:"i"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	prog, err := y.program(ctx, "yaml")
	if err != nil {
		return err
	}

	return writeFailed("yaml", lang.FormatYAML(ctx, streamsFrom(ctx).Stdout, prog, y.Indent))
}

// AST prints every node of the syntax tree, indented by depth, with its
// position.
type AST struct {
	Script `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	prog, err := a.program(ctx, "ast")
	if err != nil {
		return err
	}

	return writeFailed("ast", lang.FormatTree(streamsFrom(ctx).Stdout, prog))
}

// Tokens lists the tokens of a script.
type Tokens struct {
	Script `embed:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	text, err := t.read(ctx)
	if err != nil {
		return err
	}

	toks, err := lang.Tokenize(ctx, text, t.options()...)
	if err != nil {
		return err
	}

	return writeFailed("tokens", lang.FormatTokens(streamsFrom(ctx).Stdout, toks))
}
