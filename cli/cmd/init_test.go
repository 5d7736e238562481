package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// initCLI is a minimal command line carrying flags of each kind init writes.
type initCLI struct {
	Level  string   `default:"warn"`
	Tags   []string `sep:","`
	Quiet  bool
	Hidden string `default:"secret" hidden:""`

	Limits `embed:""`

	Init Init `cmd:""`
}

func parseInit(t *testing.T, confPath string, args ...string) *kong.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, Vars(), kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ctx := WithContext(t.Context(), parseInit(t, confPath, "--tags=a,b"))

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				if !errors.Is(err, ErrWriteConfig) {
					t.Errorf("Init.Run() error = %v, want %v", err, ErrWriteConfig)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, data)
			}

			want := map[string]string{
				"level":          "warn",
				"tags":           "[a b]",
				"quiet":          "false",
				"max-tokens":     "2048",
				"max-iterations": "1000000",
			}

			for key, val := range want {
				if s := fmt.Sprint(got[key]); s != val {
					t.Errorf("config[%q] = %s, want %s", key, s, val)
				}
			}

			for _, key := range []string{"help", "force", "hidden", "existing"} {
				if _, ok := got[key]; ok {
					t.Errorf("config contains %q", key)
				}
			}
		})
	}
}

func TestFlagValuesOmitsEmpty(t *testing.T) {
	t.Parallel()

	got := flagValues(parseInit(t, filepath.Join(t.TempDir(), "config.yaml")))

	if _, ok := got["tags"]; ok {
		t.Errorf("flagValues() contains empty slice: %v", got["tags"])
	}

	if got["level"] != "warn" {
		t.Errorf("flagValues()[level] = %v, want warn", got["level"])
	}
}
