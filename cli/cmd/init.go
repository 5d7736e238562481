package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/lscript/log"
	"github.com/ardnew/lscript/profile"
)

// defaultConfigIndent is the indent width of the generated YAML.
const defaultConfigIndent = 2

// Init writes a configuration file holding the current value of every flag.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// ignoreFlags are flag name prefixes never written to the configuration.
var ignoreFlags = []string{"help", "version", "force", profile.Tag}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	attr := slog.String("file", confPath)

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.With(attr, slog.Bool("exists", true)).Wrap(ErrFileExists)
	}

	out, err := yaml.MarshalWithOptions(flagValues(ktx),
		yaml.Indent(defaultConfigIndent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrWriteConfig.With(attr).Wrap(err)
	}

	if err := os.WriteFile(confPath, out, 0o600); err != nil {
		return ErrWriteConfig.With(attr).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", attr)

	return nil
}

// flagValues collects the value of every configurable flag of ktx keyed by
// flag name. Empty values are omitted.
func flagValues(ktx *kong.Context) map[string]any {
	values := make(map[string]any)

	for _, flag := range ktx.Flags() {
		if flag.Hidden || slices.ContainsFunc(ignoreFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		switch v := ktx.FlagValue(flag).(type) {
		case nil:
		case string:
			if v != "" {
				values[flag.Name] = v
			}
		case []string:
			if len(v) > 0 {
				values[flag.Name] = v
			}
		default:
			values[flag.Name] = v
		}
	}

	return values
}
