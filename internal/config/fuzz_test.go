package config

import (
	"testing"
)

// FuzzParse feeds arbitrary documents to the TOML and YAML config parsers.
// Run: go test -fuzz=FuzzParse -fuzztime=30s ./internal/config
func FuzzParse(f *testing.F) {
	seeds := []string{
		``,
		`build-dir = "tmp"`,
		"[parsers]\njson = \"0.21.0\"\n",
		"[parsers]\nts = { ref = \"master\", from = \"https://example.com\", cmd = \"make\" }\n",
		"[tree-sitter]\nversion = 1\n",
		"parsers:\n  json: 0.21.0\n",
		"parsers: [1, 2]\n",
		`ncpus = -1`,
		`target = "all"`,
		"{",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, format := range []Format{FormatTOML, FormatYAML} {
			layer, _, err := Parse(data, format)
			if err != nil {
				continue
			}
			cfg := Default()
			cfg.Apply(layer)
			for name, spec := range cfg.Parsers {
				if spec.Ref == "" {
					t.Errorf("parser %q accepted without a ref", name)
				}
			}
		}
	})
}
