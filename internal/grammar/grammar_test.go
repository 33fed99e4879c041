package grammar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		want  []string
	}{
		{
			name:  "single root",
			files: map[string]string{"grammar.js": "", "src/parser.c": ""},
			want:  []string{"."},
		},
		{
			name: "multiple grammars",
			files: map[string]string{
				"typescript/grammar.js": "",
				"tsx/grammar.js":        "",
				"common/define.js":      "",
			},
			want: []string{"tsx", "typescript"},
		},
		{
			name: "excluded directories",
			files: map[string]string{
				"grammar.js":                  "",
				"test/fixtures/grammar.js":    "",
				"Docs/grammar.js":             "",
				"examples/grammar.js":         "",
				"bindings/node/grammar.js":    "",
				".github/grammar.js":          "",
				"queries/grammar.js":          "",
				"scripts/grammar.js":          "",
				"nested/tests/one/grammar.js": "",
			},
			want: []string{"."},
		},
		{
			name: "gitignore",
			files: map[string]string{
				".gitignore":                "node_modules\n/build/\n",
				"grammar.js":                "",
				"node_modules/x/grammar.js": "",
				"build/grammar.js":          "",
			},
			want: []string{"."},
		},
		{
			name: "nested gitignore",
			files: map[string]string{
				"php/grammar.js":                "",
				"php/.gitignore":                "generated/\n",
				"php/generated/grammar.js":      "",
				"php_only/grammar.js":           "",
				"php_only/generated/grammar.js": "",
			},
			want: []string{"php", "php_only", "php_only/generated"},
		},
		{
			name:  "no grammar",
			files: map[string]string{"README.md": ""},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			writeFiles(t, root, tt.files)

			got, err := Find(root)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}

			abs, err := filepath.Abs(root)
			if err != nil {
				t.Fatal(err)
			}
			var want []string
			for _, w := range tt.want {
				want = append(want, filepath.Join(abs, filepath.FromSlash(w)))
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Find() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFind_MissingDir(t *testing.T) {
	t.Parallel()
	if _, err := Find(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Find() on a missing directory should fail")
	}
}

func TestIsExcluded(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		want bool
	}{
		{"docs", true},
		{"DOCS", true},
		{"Tests", true},
		{".git", true},
		{"src", false},
		{"typescript", false},
	}
	for _, tt := range tests {
		if got := IsExcluded(tt.name); got != tt.want {
			t.Errorf("IsExcluded(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
