package profile

import (
	"slices"
	"testing"
)

func TestConfig_Options(t *testing.T) {
	c := Make(WithMode("cpu"), WithPath("/tmp/p"), WithQuiet(true))

	mode, path, quiet := c()
	if mode != "cpu" || path != "/tmp/p" || !quiet {
		t.Errorf("Make() = (%q, %q, %v)", mode, path, quiet)
	}

	mode, path, quiet = WithMode("")(c)()
	if mode != "" || path != "/tmp/p" || !quiet {
		t.Errorf("WithMode(\"\") = (%q, %q, %v)", mode, path, quiet)
	}
}

func TestConfig_StartDisabled(t *testing.T) {
	p := Make(WithPath(t.TempDir())).Start()
	if _, ok := p.(ignore); !ok {
		t.Errorf("Start() without a mode = %T, want no-op", p)
	}

	p.Stop()
}

func TestModes_Sorted(t *testing.T) {
	if modes := Modes(); !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, not sorted", modes)
	}
}
