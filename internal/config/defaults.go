package config

import (
	"runtime"

	"github.com/AndreyAkinshin/tsdl/internal/toolchain"
)

// Default configuration values.
const (
	DefaultConfigFile        = "parsers.toml"
	DefaultBuildDir          = "tmp"
	DefaultOutDir            = "parsers"
	DefaultPrefix            = "libtree-sitter-"
	DefaultFresh             = false
	DefaultShowConfig        = false
	DefaultTarget            = TargetNative
	DefaultTreeSitterVersion = "0.22.6"
	DefaultTreeSitterRepo    = "https://github.com/tree-sitter/tree-sitter"
	// DefaultParserRepoBase is prepended to a language name to form the
	// repository of languages without a "from".
	DefaultParserRepoBase = "https://github.com/tree-sitter/tree-sitter-"
	// DefaultRef is built for languages missing from [parsers].
	DefaultRef = "HEAD"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BuildDir:   DefaultBuildDir,
		OutDir:     DefaultOutDir,
		Prefix:     DefaultPrefix,
		Fresh:      DefaultFresh,
		NCPUs:      runtime.NumCPU(),
		ShowConfig: DefaultShowConfig,
		Target:     DefaultTarget,
		TreeSitter: TreeSitter{
			Version:  DefaultTreeSitterVersion,
			Repo:     DefaultTreeSitterRepo,
			Platform: toolchain.DefaultPlatform(),
		},
	}
}

// NativeExtension returns the shared library extension of the host.
func NativeExtension() string {
	return nativeExtension(runtime.GOOS)
}

func nativeExtension(goos string) string {
	switch goos {
	case "darwin", "ios":
		return "dylib"
	case "windows":
		return "dll"
	default:
		return "so"
	}
}
