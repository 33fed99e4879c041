// Package grammar finds the grammar roots of a cloned parser repository.
//
// A grammar root is a directory directly containing grammar.js. Most
// repositories have one at their top level; some (typescript, php, ...) host
// several grammars in subdirectories.
package grammar

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefinitionFile is the file that marks a grammar root.
const DefinitionFile = "grammar.js"

// excluded directories never contain buildable grammars, even when they ship
// a grammar.js fixture. Names are matched case-insensitively.
var excluded = map[string]bool{
	".git":     true,
	".github":  true,
	"bindings": true,
	"doc":      true,
	"docs":     true,
	"examples": true,
	"queries":  true,
	"script":   true,
	"scripts":  true,
	"test":     true,
	"tests":    true,
}

// IsExcluded reports whether a directory named name is skipped.
func IsExcluded(name string) bool {
	return excluded[strings.ToLower(name)]
}

// gitignore is one .gitignore file and the directory it applies to.
type gitignore struct {
	dir     string
	matcher *ignore.GitIgnore
}

// Find returns the absolute, sorted grammar roots below dir. Files and
// directories ignored by a .gitignore of the repository are skipped. No root
// at all is not an error here.
func Find(dir string) ([]string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	var (
		roots   []string
		ignores []gitignore
	)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && isIgnored(ignores, path, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			if d.Name() == DefinitionFile && d.Type().IsRegular() {
				roots = append(roots, filepath.Dir(path))
			}
			return nil
		}
		if path != root && IsExcluded(d.Name()) {
			return filepath.SkipDir
		}
		// Rules of dir/.gitignore apply to the rest of dir, which WalkDir
		// visits next in lexical order.
		ignores = pruneIgnores(ignores, path)
		if gi, ok := loadGitignore(path); ok {
			ignores = append(ignores, gi)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(roots)
	return roots, nil
}

func loadGitignore(dir string) (gitignore, bool) {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return gitignore{}, false
	}
	m, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return gitignore{}, false
	}
	return gitignore{dir: dir, matcher: m}, true
}

// pruneIgnores drops the rules of directories that do not contain path.
func pruneIgnores(ignores []gitignore, path string) []gitignore {
	kept := ignores[:0]
	for _, gi := range ignores {
		if within(gi.dir, path) {
			kept = append(kept, gi)
		}
	}
	return kept
}

func within(dir, path string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

func isIgnored(ignores []gitignore, path string, isDir bool) bool {
	for _, gi := range ignores {
		if !within(gi.dir, path) {
			continue
		}
		rel, err := filepath.Rel(gi.dir, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if gi.matcher.MatchesPath(rel) {
			return true
		}
		if isDir && gi.matcher.MatchesPath(rel+"/") {
			return true
		}
	}
	return false
}
