package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"testing"
)

func TestHistoryPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() of missing file: %v", err)
	}

	for _, e := range []Entry{
		{"x = 1;", modeEval},
		{"vars", modeCtrl},
		{"   ", modeEval},
		{"x = 1;", modeEval},
		{"output(x);", modeEval},
		{"x = 1;", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) error: %v", e.Line, err)
		}
	}

	want := []Entry{
		{"vars", modeCtrl},
		{"output(x);", modeEval},
		{"x = 1;", modeEval},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %v, want %v", got, want)
	}
}

func TestHistoryEntry(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	if err := h.Add("help", modeCtrl); err != nil {
		t.Fatal(err)
	}

	e, err := h.Entry(0)
	if err != nil || e != (Entry{"help", modeCtrl}) {
		t.Errorf("Entry(0) = %v, %v", e, err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}

func TestHistoryLoadUntagged(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	if err := os.WriteFile(path, []byte("E:a = 1;\nC:quit\nplain\n\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []Entry{{"a = 1;", modeEval}, {"quit", modeCtrl}, {"plain", modeEval}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestHistoryTrim(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for i := range maxHistory + 5 {
		if err := h.Add("x = "+strconv.Itoa(i)+";", modeEval); err != nil {
			t.Fatal(err)
		}
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	e, _ := h.Entry(0)
	if e.Line != "x = 5;" {
		t.Errorf("oldest entry = %q, want %q", e.Line, "x = 5;")
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if reloaded.Len() != maxHistory {
		t.Errorf("reloaded Len() = %d, want %d", reloaded.Len(), maxHistory)
	}
}
