package config

import (
	"fmt"
	"net/url"
	"sort"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the effective configuration. Repository URLs of parsers are
// not checked here; a bad one only fails its own language.
func Validate(cfg *Config) error {
	required := []struct {
		field string
		value string
	}{
		{"build-dir", cfg.BuildDir},
		{"out-dir", cfg.OutDir},
		{"tree-sitter.version", cfg.TreeSitter.Version},
		{"tree-sitter.repo", cfg.TreeSitter.Repo},
		{"tree-sitter.platform", cfg.TreeSitter.Platform},
	}
	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}

	if cfg.NCPUs < 1 {
		return &ValidationError{Field: "ncpus", Message: fmt.Sprintf("must be at least 1, got %d", cfg.NCPUs)}
	}
	if !cfg.Target.IsValid() {
		return &ValidationError{
			Field:   "target",
			Message: fmt.Sprintf(`must be "native", "wasm" or "all", got %q`, cfg.Target),
		}
	}

	names := make([]string, 0, len(cfg.Parsers))
	for name := range cfg.Parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := ValidateLanguageName(name); err != nil {
			return err
		}
		if cfg.Parsers[name].Ref == "" {
			return &ValidationError{Field: fmt.Sprintf("parsers.%s.ref", name), Message: "is required"}
		}
	}
	return nil
}

// ValidateLanguageName checks that name can be used as a directory name.
func ValidateLanguageName(name string) error {
	if name == "" || name == "." || name == ".." {
		return &ValidationError{Field: "language", Message: fmt.Sprintf("invalid name %q", name)}
	}
	for _, r := range name {
		if r == '/' || r == '\\' {
			return &ValidationError{
				Field:   "language",
				Message: fmt.Sprintf("name %q must not contain path separators", name),
			}
		}
	}
	return nil
}

// parseRepoURL accepts absolute URLs only, e.g. https://... or file:///...
func parseRepoURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%q is not an absolute URL", raw)
	}
	return u, nil
}
