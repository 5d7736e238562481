// Package log is a small leveled logging layer over [log/slog].
//
// A [Logger] is built once from functional options and never mutated.
// Deriving a variant with [Logger.Wrap] or [Logger.With] returns a new value,
// so loggers can be shared across goroutines freely. The zero Logger discards
// every record.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
//	logger.Info("script loaded", slog.Int("statements", 12))
//
// # Levels
//
// Five levels are named: [LevelTrace], [LevelDebug], [LevelInfo], [LevelWarn]
// and [LevelError]. Trace sits below Debug and is used for per-phase detail
// of the interpreter pipeline.
//
// # Formats
//
// [FormatText] writes logfmt-style key=value pairs. [WithPretty] colors them
// with ANSI escapes for terminals. [FormatJSON] writes one JSON object per
// record.
//
// # Package logger
//
// The package-level functions ([Info], [Debug], ...) log through a default
// Logger writing to stderr. [Config] reconfigures it.
package log
