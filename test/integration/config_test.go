package integration

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AndreyAkinshin/tsdl/internal/config"
	tsdlerrors "github.com/AndreyAkinshin/tsdl/internal/errors"
)

func configFixture(name string) string {
	return filepath.Join(fixturesDir(), "config", name)
}

func TestFixtures_EveryDeclaredLanguageResolves(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"full.toml", "full.yaml"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg, warnings, err := config.Resolve(config.Default(), configFixture(name), nil)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("Resolve() warnings = %v, want none", warnings)
			}

			want := []string{"json", "php", "rust", "typescript"}
			if diff := cmp.Diff(want, cfg.Languages(nil)); diff != "" {
				t.Errorf("Languages() mismatch (-want +got):\n%s", diff)
			}
			for _, lang := range want {
				coords, err := cfg.Coordinates(lang)
				if err != nil {
					t.Errorf("Coordinates(%q) error = %v", lang, err)
					continue
				}
				if !coords.Declared {
					t.Errorf("Coordinates(%q).Declared = false, want true", lang)
				}
			}
		})
	}
}

func TestFixtures_InvalidFilesAreConfigErrors(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"malformed.toml", "invalid-ncpus.toml", "invalid-parser.toml"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, _, err := config.Resolve(config.Default(), configFixture(name), nil)
			if err == nil {
				t.Fatal("Resolve() error = nil, want a configuration error")
			}
			if got := tsdlerrors.GetExitCode(err); got != tsdlerrors.ExitConfigError {
				t.Errorf("GetExitCode() = %d, want %d (err: %v)", got, tsdlerrors.ExitConfigError, err)
			}
		})
	}
}

func TestFixtures_MissingFileKeepsDefaults(t *testing.T) {
	t.Parallel()
	cfg, _, err := config.Resolve(config.Default(), configFixture("missing.toml"), nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.BuildDir != config.DefaultBuildDir {
		t.Errorf("BuildDir = %q, want %q", cfg.BuildDir, config.DefaultBuildDir)
	}
	if got := cfg.Languages(nil); len(got) != 0 {
		t.Errorf("Languages() = %v, want none", got)
	}
}
