package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTarget(t *testing.T) {
	t.Parallel()
	tests := []struct {
		target Target
		valid  bool
		exts   []string
	}{
		{TargetNative, true, []string{"so"}},
		{TargetWasm, true, []string{"wasm"}},
		{TargetAll, true, []string{"so", "wasm"}},
		{Target("jvm"), false, nil},
	}
	for _, tt := range tests {
		if got := tt.target.IsValid(); got != tt.valid {
			t.Errorf("Target(%q).IsValid() = %v, want %v", tt.target, got, tt.valid)
		}
		if diff := cmp.Diff(tt.exts, tt.target.Extensions("so")); diff != "" {
			t.Errorf("Target(%q).Extensions() mismatch (-want +got):\n%s", tt.target, diff)
		}
	}
}

func TestNativeExtension(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"linux":   "so",
		"freebsd": "so",
		"darwin":  "dylib",
		"windows": "dll",
	}
	for goos, want := range tests {
		if got := nativeExtension(goos); got != want {
			t.Errorf("nativeExtension(%q) = %q, want %q", goos, got, want)
		}
	}
	if NativeExtension() == "" {
		t.Error("NativeExtension() is empty")
	}
}

func TestParserSpec_IsBare(t *testing.T) {
	t.Parallel()
	tests := []struct {
		spec ParserSpec
		want bool
	}{
		{RefSpec("HEAD"), true},
		{ParserSpec{Ref: "HEAD"}, true},
		{ParserSpec{Ref: "HEAD", From: "https://example.com"}, false},
		{ParserSpec{Ref: "HEAD", BuildScript: "make"}, false},
	}
	for _, tt := range tests {
		if got := tt.spec.IsBare(); got != tt.want {
			t.Errorf("%+v.IsBare() = %v, want %v", tt.spec, got, tt.want)
		}
	}
}

func TestQuoteTOML(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"plain":      `"plain"`,
		`a "b" \c`:   `"a \"b\" \\c"`,
		"line\nnext": `"line\nnext"`,
		"bell\a":     `"bell\u0007"`,
	}
	for in, want := range tests {
		if got := quoteTOML(in); got != want {
			t.Errorf("quoteTOML(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty build dir", func(c *Config) { c.BuildDir = "" }, "build-dir"},
		{"empty platform", func(c *Config) { c.TreeSitter.Platform = "" }, "tree-sitter.platform"},
		{"zero ncpus", func(c *Config) { c.NCPUs = 0 }, "ncpus"},
		{"bad target", func(c *Config) { c.Target = "jvm" }, "target"},
		{"empty ref", func(c *Config) { c.Parsers = map[string]ParserSpec{"json": {}} }, "parsers.json.ref"},
		{"bad language", func(c *Config) { c.Parsers = map[string]ParserSpec{"a/b": RefSpec("HEAD")} }, "language"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testDefaults()
			tt.modify(&cfg)
			err := Validate(&cfg)
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			valErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if valErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", valErr.Field, tt.field)
			}
		})
	}
}
