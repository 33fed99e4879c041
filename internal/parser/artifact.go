package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ArtifactName returns the file name of the parser built from the grammar in
// root: prefix, the directory name without a leading "tree-sitter-", and ext.
func ArtifactName(prefix, root, ext string) string {
	name := strings.TrimPrefix(filepath.Base(root), "tree-sitter-")
	return prefix + name + "." + ext
}

// Locate finds the artifact a build left in dir. The file called name wins;
// otherwise exactly one regular file with extension ext must exist.
func Locate(dir, name, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var candidates []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if e.Name() == name {
			return filepath.Join(dir, name), nil
		}
		if strings.HasSuffix(e.Name(), "."+ext) {
			candidates = append(candidates, e.Name())
		}
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("no .%s file in %s", ext, dir)
	case 1:
		return filepath.Join(dir, candidates[0]), nil
	default:
		sort.Strings(candidates)
		return "", fmt.Errorf("ambiguous build output in %s: found %d .%s files (%s)",
			dir, len(candidates), ext, strings.Join(candidates, ", "))
	}
}

// copyFile copies src to dst through a temporary file so readers of dst never
// see a partial parser.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
