package cli

import (
	"errors"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/lscript/pkg"
)

// loadYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Keys are flag names. Nested maps are joined with hyphens, so both of these
// set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var m map[string]any

	if err := yaml.NewDecoder(r).Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, pkg.ErrLoadConfig.Wrap(err)
	}

	return flatten(m), nil
}

// loadTOML is a [kong.ConfigurationLoader] for TOML configuration files.
// Tables are joined with hyphens as in [loadYAML].
func loadTOML(r io.Reader) (kong.Resolver, error) {
	var m map[string]any

	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, pkg.ErrLoadConfig.Wrap(err)
	}

	return flatten(m), nil
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// flatten converts a decoded document into a config, joining nested keys
// with hyphens and converting numbers to strings for kong's mappers.
func flatten(m map[string]any) config {
	c := config{}
	c.merge("", m)

	return c
}

func (c config) merge(prefix string, m map[string]any) {
	for k, v := range m {
		key := prefix + k

		switch v := v.(type) {
		case map[string]any:
			c.merge(key+"-", v)
		default:
			c[normalize(key)] = scalar(v)
		}
	}
}

func scalar(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out
	default:
		return v
	}
}

// normalize maps a config key to its flag name: lowercase, with
// underscores as hyphens.
func normalize(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

// Keys returns the flag names defined by c in sorted order.
func (c config) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[normalize(flag.Name)]; ok {
		return v, nil
	}

	return nil, nil
}
