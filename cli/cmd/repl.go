package cmd

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ardnew/lscript/cli/cmd/repl"
	"github.com/ardnew/lscript/log"
)

// Repl runs statements interactively against one machine.
type Repl struct {
	Limits `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache directory undefined")
	}

	logger := log.With(
		slog.String("command", "repl"),
		slog.String("run_id", uuid.NewString()),
	)

	return repl.Run(ctx, cacheDir, logger, r.options()...)
}
