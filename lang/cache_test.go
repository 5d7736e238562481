package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestParseReader_Cached(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	src := "x = 1; output(x);"

	first, err := ParseReader(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}

	second, err := ParseReader(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}

	if first != second {
		t.Error("identical source not served from cache")
	}

	other, err := ParseReader(t.Context(), strings.NewReader(src), WithMaxTokens(100))
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}

	if other == first {
		t.Error("different limits shared a cache entry")
	}

	ClearCache()

	third, err := ParseReader(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}

	if third == first {
		t.Error("ClearCache did not drop the entry")
	}
}

func TestParseReader_CachesErrors(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	for range 2 {
		_, err := ParseReader(t.Context(), strings.NewReader("x = ;"))
		if !errors.Is(err, ErrInvalidPrimary) {
			t.Errorf("error = %v, want %v", err, ErrInvalidPrimary)
		}
	}
}

func TestParseReader_KeyCollision(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	src := "a = 1; b = 2;"

	planted := &entry{src: "c = 3;", prog: &Program{}}
	planted.once.Do(func() {})
	cache.Store(cacheKey([]byte(src), makeOptions()), planted)

	prog, err := ParseReader(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}

	if prog == planted.prog || len(prog.Body) != 2 {
		t.Errorf("colliding entry served for %q: %+v", src, prog)
	}
}

func TestCacheKey(t *testing.T) {
	o := makeOptions()

	if cacheKey([]byte("x = 1;"), o) == cacheKey([]byte("x = 2;"), o) {
		t.Error("different sources share a key")
	}

	if cacheKey([]byte("x = 1;"), o) == cacheKey([]byte("x = 1;"), makeOptions(WithMaxLexeme(8))) {
		t.Error("different limits share a key")
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(t.Context(), errReader{})
	if !errors.Is(err, ErrReadSource) {
		t.Errorf("error = %v, want %v", err, ErrReadSource)
	}
}

func BenchmarkParseReader(b *testing.B) {
	src := strings.Repeat("i = i + 1; if (i > 10) { output(i); }\n", 40)

	b.Run("cached", func(b *testing.B) {
		ClearCache()

		for b.Loop() {
			if _, err := ParseReader(b.Context(), strings.NewReader(src)); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("uncached", func(b *testing.B) {
		for b.Loop() {
			if _, err := Compile(b.Context(), src); err != nil {
				b.Fatal(err)
			}
		}
	})
}
