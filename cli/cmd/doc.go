// Package cmd implements the lscript subcommands: run, fmt, repl and init.
//
// Commands read their standard streams from the context (see [WithStreams])
// so they can be driven from tests without touching the process streams.
package cmd

var (
	// CacheIdentifier is the kong variable holding the runtime cache
	// directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the YAML
	// configuration file written by init.
	ConfigIdentifier = "config"
)
