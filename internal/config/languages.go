package config

import (
	"fmt"
	"sort"

	"github.com/AndreyAkinshin/tsdl/internal/git"
)

// Languages returns the languages to build: requested when it is not empty,
// every declared parser otherwise. Duplicates are dropped and the result is
// sorted.
func (c *Config) Languages(requested []string) []string {
	names := requested
	if len(names) == 0 {
		names = make([]string, 0, len(c.Parsers))
		for name := range c.Parsers {
			names = append(names, name)
		}
	}

	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}
	sort.Strings(unique)
	return unique
}

// Coordinates tell where and how to build one language.
type Coordinates struct {
	Name        string
	Ref         git.Ref
	Repo        string
	BuildScript string
	// Declared is false for languages absent from [parsers]; they build HEAD
	// of the default repository.
	Declared bool
}

// Coordinates resolves the repository, ref and build script of language.
func (c *Config) Coordinates(language string) (Coordinates, error) {
	if err := ValidateLanguageName(language); err != nil {
		return Coordinates{}, err
	}
	coords := Coordinates{
		Name: language,
		Ref:  git.ResolveRef(DefaultRef),
		Repo: DefaultParserRepoBase + language,
	}

	spec, ok := c.Parsers[language]
	if ok {
		coords.Declared = true
		coords.Ref = git.ResolveRef(spec.Ref)
		coords.BuildScript = spec.BuildScript
		if spec.From != "" {
			coords.Repo = spec.From
		}
	}

	if _, err := parseRepoURL(coords.Repo); err != nil {
		return Coordinates{}, fmt.Errorf("could not parse %s for %s: %w", coords.Repo, language, err)
	}
	return coords, nil
}

// Declared returns the names of the parsers declared in the configuration.
func (c *Config) Declared() []string {
	names := make([]string, 0, len(c.Parsers))
	for name := range c.Parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
