// Package profile wraps [github.com/pkg/profile] for optional runtime
// profiling of the interpreter.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	lscript --pprof-mode cpu run long.ls
//	go tool pprof -http=: ~/.cache/lscript/pprof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Config.Start] always returns a
// no-op. With it, the net/http/pprof handlers are also registered on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
