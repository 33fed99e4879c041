package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestArtifactName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		prefix, root, ext string
		want              string
	}{
		{"libtree-sitter-", "/tmp/json", "so", "libtree-sitter-json.so"},
		{"libtree-sitter-", "/tmp/tree-sitter-json", "so", "libtree-sitter-json.so"},
		{"", "/tmp/x/tsx", "wasm", "tsx.wasm"},
		{"lib", "/tmp/my-tree-sitter-lang", "dylib", "libmy-tree-sitter-lang.dylib"},
	}
	for _, tt := range tests {
		if got := ArtifactName(tt.prefix, tt.root, tt.ext); got != tt.want {
			t.Errorf("ArtifactName(%q, %q, %q) = %q, want %q", tt.prefix, tt.root, tt.ext, got, tt.want)
		}
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		files   []string
		dirs    []string
		want    string
		wantErr string
	}{
		{name: "exact", files: []string{"a.so", "lib-json.so", "b.so"}, want: "lib-json.so"},
		{name: "single candidate", files: []string{"parser.so", "parser.c"}, want: "parser.so"},
		{name: "none", files: []string{"parser.c"}, wantErr: "no .so file"},
		{name: "two candidates", files: []string{"a.so", "b.so"}, wantErr: "ambiguous"},
		{name: "directories ignored", files: []string{"a.so"}, dirs: []string{"b.so"}, want: "a.so"},
		{name: "other extension", files: []string{"a.wasm", "b.dylib"}, wantErr: "no .so file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, filepath.Join(dir, f), "")
			}
			for _, d := range tt.dirs {
				if err := os.Mkdir(filepath.Join(dir, d), 0o755); err != nil {
					t.Fatal(err)
				}
			}

			got, err := Locate(dir, "lib-json.so", "so")
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Locate() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Locate() error = %v", err)
			}
			if want := filepath.Join(dir, tt.want); got != want {
				t.Errorf("Locate() = %q, want %q", got, want)
			}
		})
	}
}

func TestLocate_MissingDir(t *testing.T) {
	t.Parallel()
	if _, err := Locate(filepath.Join(t.TempDir(), "missing"), "x.so", "so"); err == nil {
		t.Error("Locate() should fail for a missing directory")
	}
}

func TestCopyFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.so")
	dst := filepath.Join(dir, "out", "dst.so")
	writeFile(t, src, "payload")
	if err := os.Chmod(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copyFile() error = %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("copied content = %q, want %q", data, "payload")
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
	entries, _ := os.ReadDir(filepath.Dir(dst))
	if len(entries) != 1 {
		t.Errorf("out dir has %d entries, want only the copy", len(entries))
	}
}
