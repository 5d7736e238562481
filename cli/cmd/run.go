package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"maps"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/ardnew/lscript/lang"
	"github.com/ardnew/lscript/log"
	"github.com/ardnew/lscript/pkg"
)

// Run compiles and executes scripts.
//
// Every source runs in order against one machine, so earlier files can set
// variables for later ones.
type Run struct {
	Limits `embed:""`

	Prompt   string   `default:"> "   help:"Prompt written before each input() read."`
	Define   []string `               help:"Set NAME to the value of expression EXPR before running." placeholder:"NAME=EXPR" sep:"none" short:"D"`
	DumpVars string   `default:"none" enum:"none,yaml,json"                                          help:"Write the final variables to stderr as ${enum}."`

	Source []string `arg:"" help:"Script file(s) or '-' for stdin (default)." name:"source" optional:"" type:"existingfile"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)
	logger := log.With(
		slog.String("command", "run"),
		slog.String("run_id", uuid.NewString()),
	)

	srcs, err := makeSources(r.Source, streams.Stdin)
	if err != nil {
		return err
	}

	opts := append(r.Limits.options(),
		lang.WithLogger(logger),
		lang.WithStdout(streams.Stdout),
		lang.WithPrompt(r.Prompt),
	)

	// input() shares stdin only when the script is not read from it.
	if !srcs.usesStdin() {
		opts = append(opts, lang.WithStdin(streams.Stdin))
	}

	m := lang.NewMachine(opts...)

	if err := r.define(ctx, m); err != nil {
		return err
	}

	defer func() {
		if derr := r.dump(streams.Stderr, m); derr != nil && err == nil {
			err = derr
		}
	}()

	for src, rd := range srcs.All() {
		prog, err := compile(ctx, rd, opts...)
		if err != nil {
			logger.DebugContext(ctx, "compile failed", src.attr())

			return err
		}

		logger.DebugContext(ctx, "running", src.attr(),
			slog.Int("statement_count", len(prog.Body)))

		if err := m.Run(ctx, prog); err != nil {
			return err
		}
	}

	return nil
}

// define seeds m from the --define flags in order.
func (r *Run) define(ctx context.Context, m *lang.Machine) error {
	for _, def := range r.Define {
		name, expr, ok := strings.Cut(def, "=")
		if !ok {
			return pkg.ErrInvalidDefine.Wrapf("%q: expected NAME=EXPR", def)
		}

		if err := m.Define(ctx, strings.TrimSpace(name), expr); err != nil {
			return pkg.ErrInvalidDefine.Wrap(err)
		}
	}

	return nil
}

// dump writes the variable table of m to w in the --dump-vars format.
func (r *Run) dump(w io.Writer, m *lang.Machine) error {
	if r.DumpVars == "" || r.DumpVars == "none" {
		return nil
	}

	vars := maps.Collect(m.Vars())

	var err error

	switch r.DumpVars {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(vars)

	case "yaml":
		var out []byte
		if out, err = yaml.Marshal(vars); err == nil {
			_, err = w.Write(out)
		}

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q: want none, yaml or json", r.DumpVars)
	}

	if err != nil {
		return ErrDumpVars.With(slog.String("format", r.DumpVars)).Wrap(err)
	}

	return nil
}
