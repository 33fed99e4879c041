package config

// Layer is one source of configuration. A nil field was not set by that
// source and leaves lower layers untouched.
type Layer struct {
	BuildDir   *string `toml:"build-dir" yaml:"build-dir"`
	OutDir     *string `toml:"out-dir" yaml:"out-dir"`
	Prefix     *string `toml:"prefix" yaml:"prefix"`
	Fresh      *bool   `toml:"fresh" yaml:"fresh"`
	NCPUs      *int    `toml:"ncpus" yaml:"ncpus"`
	ShowConfig *bool   `toml:"show-config" yaml:"show-config"`
	Target     *Target `toml:"target" yaml:"target"`

	TreeSitter TreeSitterLayer       `toml:"tree-sitter" yaml:"tree-sitter"`
	Parsers    map[string]ParserSpec `toml:"parsers" yaml:"parsers"`
}

// TreeSitterLayer is the optional form of TreeSitter.
type TreeSitterLayer struct {
	Version  *string `toml:"version" yaml:"version"`
	Repo     *string `toml:"repo" yaml:"repo"`
	Platform *string `toml:"platform" yaml:"platform"`
}

// Apply overwrites every field of c that l sets. Parsers are merged per
// language.
func (c *Config) Apply(l *Layer) {
	if l == nil {
		return
	}
	set(&c.BuildDir, l.BuildDir)
	set(&c.OutDir, l.OutDir)
	set(&c.Prefix, l.Prefix)
	set(&c.Fresh, l.Fresh)
	set(&c.NCPUs, l.NCPUs)
	set(&c.ShowConfig, l.ShowConfig)
	set(&c.Target, l.Target)
	set(&c.TreeSitter.Version, l.TreeSitter.Version)
	set(&c.TreeSitter.Repo, l.TreeSitter.Repo)
	set(&c.TreeSitter.Platform, l.TreeSitter.Platform)

	if len(l.Parsers) > 0 && c.Parsers == nil {
		c.Parsers = make(map[string]ParserSpec, len(l.Parsers))
	}
	for name, spec := range l.Parsers {
		c.Parsers[name] = spec
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Ptr returns a pointer to v, for building layers.
func Ptr[T any](v T) *T {
	return &v
}
