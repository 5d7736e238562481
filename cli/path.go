package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/lscript/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// configExt lists the configuration file extensions in load order. Later
// files override earlier ones; flags override them all.
var configExt = []string{".json", ".toml", ".yaml"}

var defaultDirMode os.FileMode = 0o700

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

func cacheDir() string { return pkg.CacheDir() }

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
