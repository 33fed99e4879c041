// Package config resolves the effective build configuration from built-in
// defaults, a parsers.toml (or YAML) file and explicit command-line flags.
package config

// Config is the effective configuration of a build.
type Config struct {
	BuildDir   string                `toml:"build-dir" yaml:"build-dir"`
	OutDir     string                `toml:"out-dir" yaml:"out-dir"`
	Prefix     string                `toml:"prefix" yaml:"prefix"`
	Fresh      bool                  `toml:"fresh" yaml:"fresh"`
	NCPUs      int                   `toml:"ncpus" yaml:"ncpus"`
	ShowConfig bool                  `toml:"show-config" yaml:"show-config"`
	Target     Target                `toml:"target" yaml:"target"`
	TreeSitter TreeSitter            `toml:"tree-sitter" yaml:"tree-sitter"`
	Parsers    map[string]ParserSpec `toml:"parsers,omitempty" yaml:"parsers,omitempty"`
}

// TreeSitter locates the tree-sitter CLI release to provision.
type TreeSitter struct {
	Version  string `toml:"version" yaml:"version"`
	Repo     string `toml:"repo" yaml:"repo"`
	Platform string `toml:"platform" yaml:"platform"`
}

// ParserSpec configures one language. In files it is either a bare ref
// string or a table with ref, from and build_script.
type ParserSpec struct {
	Ref         string
	From        string // Repository URL; empty means the default tree-sitter-<language> repository
	BuildScript string // Replaces generate + build when set

	bare bool
}

// RefSpec returns a spec written as a bare ref string.
func RefSpec(ref string) ParserSpec {
	return ParserSpec{Ref: ref, bare: true}
}

// IsBare reports whether the spec only carries a ref.
func (p ParserSpec) IsBare() bool {
	return p.bare || (p.From == "" && p.BuildScript == "")
}

// Target selects which artifacts are built for every grammar.
type Target string

const (
	TargetNative Target = "native"
	TargetWasm   Target = "wasm"
	TargetAll    Target = "all"
)

// WasmExtension is the extension of WebAssembly parsers.
const WasmExtension = "wasm"

// IsValid reports whether t is a known target.
func (t Target) IsValid() bool {
	switch t {
	case TargetNative, TargetWasm, TargetAll:
		return true
	}
	return false
}

// Native reports whether native shared libraries are built.
func (t Target) Native() bool { return t == TargetNative || t == TargetAll }

// Wasm reports whether WebAssembly parsers are built.
func (t Target) Wasm() bool { return t == TargetWasm || t == TargetAll }

// Extensions returns the artifact extensions to build, native first.
func (t Target) Extensions(nativeExt string) []string {
	var exts []string
	if t.Native() {
		exts = append(exts, nativeExt)
	}
	if t.Wasm() {
		exts = append(exts, WasmExtension)
	}
	return exts
}
