// Package cli contains the command line interface for lscript.
//
// # Usage
//
//	lscript [flags] [source ...]          run scripts (default command)
//	lscript fmt [native|json|yaml|ast|tokens] [source]
//	lscript repl
//	lscript init [--force]
//
// A source of "-", or no source at all, reads the script from stdin. A script
// read from stdin cannot also use input().
//
// # Configuration
//
// Flag defaults are read from config.json, config.toml and config.yaml in
// the user configuration directory, in that order, with later files taking
// precedence and command-line flags overriding them all. Keys are flag names;
// nested tables and maps are joined with hyphens:
//
//	log:
//	  level: debug
//	max-iterations: 50000
//
// The init command writes config.yaml from the current flag values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp layout (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o lscript .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
//
// # Examples
//
//	# Run a script with a preset variable and dump the final variables
//	lscript -D 'limit=10*2' --dump-vars=yaml count.ls
//
//	# Print the syntax tree of a script read from stdin
//	lscript fmt ast < count.ls
//
//	# Trace the interpreter with CPU profiling
//	lscript --log-level=trace --pprof-mode=cpu count.ls
package cli
