package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/lscript/cli"
	"github.com/ardnew/lscript/lang"
	"github.com/ardnew/lscript/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err == nil {
		return
	}

	// Script errors are reported as positioned diagnostics; everything else
	// goes through the logger.
	var le *lang.Error
	if errors.As(err, &le) && le.Phase != lang.PhaseNone {
		fmt.Fprintln(os.Stderr, le.Diagnostic())
		log.Debug("script failed", slog.Any("error", le))
	} else {
		log.Error("run failed", slog.Any("error", err)) // slog uses LogValue()
	}

	os.Exit(1)
}
