package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AndreyAkinshin/tsdl/internal/git"
)

func TestLanguages(t *testing.T) {
	t.Parallel()
	cfg := testDefaults()
	cfg.Parsers = map[string]ParserSpec{
		"rust": RefSpec("0.21.2"),
		"json": RefSpec("0.21.0"),
	}

	tests := []struct {
		name      string
		requested []string
		want      []string
	}{
		{"all declared", nil, []string{"json", "rust"}},
		{"requested", []string{"python"}, []string{"python"}},
		{"duplicates collapse", []string{"python", "json", "python"}, []string{"json", "python"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, cfg.Languages(tt.requested)); diff != "" {
			t.Errorf("%s: Languages() mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestLanguages_NothingDeclared(t *testing.T) {
	t.Parallel()
	cfg := testDefaults()
	if got := cfg.Languages(nil); len(got) != 0 {
		t.Errorf("Languages() = %v, want empty", got)
	}
}

func TestCoordinates(t *testing.T) {
	t.Parallel()
	cfg := testDefaults()
	cfg.Parsers = map[string]ParserSpec{
		"json":       RefSpec("0.21.0"),
		"typescript": {Ref: "master", From: "https://example.com/ts.git", BuildScript: "make"},
	}

	tests := []struct {
		language string
		want     Coordinates
	}{
		{
			language: "json",
			want: Coordinates{
				Name:     "json",
				Ref:      git.Ref("v0.21.0"),
				Repo:     "https://github.com/tree-sitter/tree-sitter-json",
				Declared: true,
			},
		},
		{
			language: "typescript",
			want: Coordinates{
				Name:        "typescript",
				Ref:         git.Ref("master"),
				Repo:        "https://example.com/ts.git",
				BuildScript: "make",
				Declared:    true,
			},
		},
		{
			language: "python",
			want: Coordinates{
				Name: "python",
				Ref:  git.HEAD,
				Repo: "https://github.com/tree-sitter/tree-sitter-python",
			},
		},
	}
	for _, tt := range tests {
		got, err := cfg.Coordinates(tt.language)
		if err != nil {
			t.Fatalf("Coordinates(%q) error = %v", tt.language, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Coordinates(%q) mismatch (-want +got):\n%s", tt.language, diff)
		}
	}
}

func TestCoordinates_Errors(t *testing.T) {
	t.Parallel()
	cfg := testDefaults()
	cfg.Parsers = map[string]ParserSpec{
		"broken": {Ref: "master", From: "not a url"},
	}

	for _, language := range []string{"broken", "a/b", ".."} {
		if _, err := cfg.Coordinates(language); err == nil {
			t.Errorf("Coordinates(%q) should fail", language)
		}
	}
}

func TestDeclared(t *testing.T) {
	t.Parallel()
	cfg := testDefaults()
	cfg.Parsers = map[string]ParserSpec{"b": RefSpec("HEAD"), "a": RefSpec("HEAD")}
	if diff := cmp.Diff([]string{"a", "b"}, cfg.Declared()); diff != "" {
		t.Errorf("Declared() mismatch (-want +got):\n%s", diff)
	}
}
