package lang

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// ErrReadSource indicates the source reader failed.
var ErrReadSource = newError(PhaseNone, "read source")

// cache stores compiled programs keyed by source and lexer limits.
// Programs are immutable, so a cached tree is shared by every caller.
var cache sync.Map

// entry is a cache slot compiled at most once for src.
type entry struct {
	once sync.Once
	src  string
	prog *Program
	err  error
}

// cacheKey hashes the limits that affect tokenizing followed by the source
// in a single xxh3 stream.
func cacheKey(src []byte, o options) uint64 {
	var lim [16]byte

	binary.LittleEndian.PutUint64(lim[:8], uint64(o.maxTokens))
	binary.LittleEndian.PutUint64(lim[8:], uint64(o.maxLexeme))

	h := xxh3.New()
	_, _ = h.Write(lim[:])
	_, _ = h.Write(src)

	return h.Sum64()
}

// ParseReader reads all of r and compiles it with [Compile].
//
// Results, including errors, are cached per source text and limit options,
// so compiling the same script again returns the same [*Program].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadSource.Wrap(err)
	}

	o := makeOptions(opts...)
	key := cacheKey(data, o)

	src := string(data)

	v, hit := cache.LoadOrStore(key, &entry{src: src})
	e := v.(*entry)

	o.logger.TraceContext(ctx, "cache lookup",
		slog.Int("source_bytes", len(data)),
		slog.String("key", strconv.FormatUint(key, 16)),
		slog.Bool("cache_hit", hit))

	// A colliding key holds another source; compile without caching.
	if e.src != src {
		o.logger.DebugContext(ctx, "cache key collision",
			slog.String("key", strconv.FormatUint(key, 16)))

		return Compile(ctx, src, opts...)
	}

	e.once.Do(func() {
		e.prog, e.err = Compile(ctx, src, opts...)
	})

	return e.prog, e.err
}

// ClearCache removes every cached program. The cache is never evicted
// otherwise, so long-running hosts compiling many distinct scripts should call
// it periodically.
func ClearCache() { cache.Clear() }
