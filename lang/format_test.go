package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func format(t *testing.T, src string, indent int) string {
	t.Helper()

	var buf bytes.Buffer
	if err := Format(&buf, compile(t, src), indent); err != nil {
		t.Fatalf("Format error: %v", err)
	}

	return buf.String()
}

func TestFormat_Canonical(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		want   string
	}{
		{
			name:  "precedence without parentheses",
			input: "x=1+2*3;",
			want:  "x = 1 + 2 * 3;\n",
		},
		{
			name:  "parentheses kept where needed",
			input: "x=(1+2)*3;",
			want:  "x = (1 + 2) * 3;\n",
		},
		{
			name:  "right-nested subtraction",
			input: "x=1-(2-3);",
			want:  "x = 1 - (2 - 3);\n",
		},
		{
			name:  "redundant parentheses dropped",
			input: "x=((1-2))-3;",
			want:  "x = 1 - 2 - 3;\n",
		},
		{
			name:  "unary of group",
			input: "x=-(a+b)*!c;",
			want:  "x = -(a + b) * !c;\n",
		},
		{
			name:  "logical levels",
			input: "x=(a||b)&&c||d;",
			want:  "x = (a || b) && c || d;\n",
		},
		{
			name:  "string escapes",
			input: `output("a\"b\n\\", 1);`,
			want:  `output("a\"b\n\\", 1);` + "\n",
		},
		{
			name:  "inline blocks",
			input: "if(a)output(1);else{output(2);}",
			want:  "if (a) { output(1); } else { output(2); }\n",
		},
		{
			name:   "indented blocks",
			input:  "loop(i<3){i=i+1;if(i==2){output(i);}}",
			indent: 2,
			want:   "loop (i < 3) {\n  i = i + 1;\n  if (i == 2) {\n    output(i);\n  }\n}\n",
		},
		{
			name:  "empty block",
			input: "{}",
			want:  "{}\n",
		},
		{
			name:  "input and expression statements",
			input: "input(n);n==1;",
			want:  "input(n);\nn == 1;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := format(t, tt.input, tt.indent); got != tt.want {
				t.Errorf("Format(%q) =\n%s\nwant:\n%s", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	sources := []string{
		"x = 3; output(x + 4);",
		`if (1 < 2) { output("yes"); } else { output("no"); }`,
		"n = 0; loop (n < 10 && !(n == 5)) { n = n + 1; output(n, n * n); }",
		"a = - -1; b = 1 - -1; c = !!a; d = (a + b) * (c - d) / 2;",
		`s = "tab\tquote\"" + 1;`,
		"if (a) if (b) output(1); else output(2);",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			for _, indent := range []int{0, 4} {
				first := format(t, src, indent)
				second := format(t, first, indent)

				if first != second {
					t.Errorf("Format not idempotent (indent %d):\n%s\nthen:\n%s", indent, first, second)
				}
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	if got := FormatString(exprOf(t, "(1 + 2) * x")); got != "(1 + 2) * x" {
		t.Errorf("FormatString = %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	prog := compile(t, `x = 1 + "a";`)

	var buf bytes.Buffer
	if err := FormatJSON(&buf, prog, 2); err != nil {
		t.Fatalf("FormatJSON error: %v", err)
	}

	var got struct {
		Node string `json:"node"`
		Body []struct {
			Node  string `json:"node"`
			Name  string `json:"name"`
			Line  int    `json:"line"`
			Col   int    `json:"col"`
			Value struct {
				Node string `json:"node"`
				Op   string `json:"op"`
				Col  int    `json:"col"`
			} `json:"value"`
		} `json:"body"`
	}

	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if got.Node != "program" || len(got.Body) != 1 {
		t.Fatalf("unexpected root: %+v", got)
	}

	s := got.Body[0]
	if s.Node != "assign" || s.Name != "x" || s.Line != 1 || s.Col != 1 {
		t.Errorf("assign = %+v", s)
	}

	if s.Value.Node != "binary" || s.Value.Op != "+" || s.Value.Col != 7 {
		t.Errorf("value = %+v", s.Value)
	}
}

func TestFormatYAML(t *testing.T) {
	prog := compile(t, `output("hi"); input(a);`)

	var buf bytes.Buffer
	if err := FormatYAML(t.Context(), &buf, prog, 2); err != nil {
		t.Fatalf("FormatYAML error: %v", err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}

	body, ok := got["body"].([]any)
	if !ok || len(body) != 2 {
		t.Fatalf("body = %#v", got["body"])
	}

	if in, _ := body[1].(map[string]any); in["node"] != "input" || in["name"] != "a" {
		t.Errorf("input = %#v", body[1])
	}
}

func TestFormatYAMLControlChars(t *testing.T) {
	prog := compile(t, `s = "x\ty\n\"z\"";`)

	for _, indent := range []int{2, 0} {
		var buf bytes.Buffer
		if err := FormatYAML(t.Context(), &buf, prog, indent); err != nil {
			t.Fatalf("FormatYAML(%d) error: %v", indent, err)
		}

		var got struct {
			Body []struct {
				Value struct {
					Value string `yaml:"value"`
				} `yaml:"value"`
			} `yaml:"body"`
		}

		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
		}

		if len(got.Body) != 1 || got.Body[0].Value.Value != "x\ty\n\"z\"" {
			t.Errorf("indent %d: decoded %+v from\n%s", indent, got, buf.String())
		}
	}
}

func TestValueMarshal(t *testing.T) {
	vars := map[string]Value{
		"n":   Int(-3),
		"tab": Str("a\tb"),
		"yes": Str("true"),
	}

	data, err := yaml.Marshal(vars)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, data)
	}

	if got["tab"] != "a\tb" || got["yes"] != "true" {
		t.Errorf("yaml decoded %#v from\n%s", got, data)
	}

	if n, ok := got["n"].(int64); !ok || n != -3 {
		t.Errorf("yaml n = %#v", got["n"])
	}

	js, err := json.Marshal(vars)
	if err != nil {
		t.Fatal(err)
	}

	if want := `{"n":-3,"tab":"a\tb","yes":"true"}`; string(js) != want {
		t.Errorf("json = %s, want %s", js, want)
	}
}

func TestFormatTokens(t *testing.T) {
	toks, err := Tokenize(t.Context(), `if (x) output("a");`)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatTokens(&buf, toks); err != nil {
		t.Fatalf("FormatTokens error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != len(toks) {
		t.Fatalf("got %d lines, want %d", len(lines), len(toks))
	}

	for i, want := range []string{"keyword", "operator", "identifier"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}

	if !strings.Contains(lines[6], `"a"`) {
		t.Errorf("string token line = %q", lines[6])
	}

	if !strings.HasPrefix(lines[len(lines)-1], "1:20") {
		t.Errorf("EOF line = %q", lines[len(lines)-1])
	}
}

func TestFormatTree(t *testing.T) {
	prog := compile(t, "x = -1;\nif (x < 2) output(\"a\\n\", x);")

	var buf bytes.Buffer
	if err := FormatTree(&buf, prog); err != nil {
		t.Fatalf("FormatTree error: %v", err)
	}

	want := strings.Join([]string{
		"program @1:1",
		"  assign x @1:1",
		"    unary - @1:5",
		"      int 1 @1:6",
		"  if @2:1",
		"    binary < @2:7",
		"      ident x @2:5",
		"      int 2 @2:9",
		"    output @2:12",
		`      string "a\n" @2:19`,
		"      ident x @2:26",
		"",
	}, "\n")

	if got := buf.String(); got != want {
		t.Errorf("FormatTree =\n%s\nwant\n%s", got, want)
	}
}
