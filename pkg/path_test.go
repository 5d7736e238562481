package pkg

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPaths(t *testing.T) {
	prefix := Prefix()
	if prefix == "" || strings.HasPrefix(prefix, ".") {
		t.Errorf("Prefix() = %q", prefix)
	}

	for name, dir := range map[string]string{
		"ConfigDir": ConfigDir(),
		"CacheDir":  CacheDir(),
	} {
		if filepath.Base(dir) != prefix {
			t.Errorf("%s() = %q, want base %q", name, dir, prefix)
		}
	}

	if got := ConfigFile(); filepath.Dir(got) != ConfigDir() {
		t.Errorf("ConfigFile() = %q, not under %q", got, ConfigDir())
	}
}
