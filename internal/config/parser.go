package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// buildScriptKeys are the accepted spellings of build_script.
var buildScriptKeys = map[string]bool{
	"build_script": true,
	"cmd":          true,
	"script":       true,
}

func parseParserSpec(v any) (ParserSpec, error) {
	switch v := v.(type) {
	case string:
		return RefSpec(v), nil
	case map[string]any:
		return parserSpecFromMap(v)
	default:
		return ParserSpec{}, fmt.Errorf("must be a ref string or a table, got %T", v)
	}
}

func parserSpecFromMap(m map[string]any) (ParserSpec, error) {
	var spec ParserSpec
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		s, ok := m[key].(string)
		if !ok {
			return ParserSpec{}, fmt.Errorf("field %q must be a string, got %T", key, m[key])
		}
		switch {
		case key == "ref":
			spec.Ref = s
		case key == "from":
			spec.From = s
		case buildScriptKeys[key]:
			if spec.BuildScript != "" {
				return ParserSpec{}, fmt.Errorf("field %q repeats build_script", key)
			}
			spec.BuildScript = s
		default:
			return ParserSpec{}, fmt.Errorf("unknown field %q", key)
		}
	}
	if spec.Ref == "" {
		return ParserSpec{}, fmt.Errorf("missing field \"ref\"")
	}
	return spec, nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (p *ParserSpec) UnmarshalTOML(v any) error {
	spec, err := parseParserSpec(v)
	if err != nil {
		return err
	}
	*p = spec
	return nil
}

// MarshalTOML implements toml.Marshaler, writing bare refs as strings and
// everything else as an inline table.
func (p ParserSpec) MarshalTOML() ([]byte, error) {
	if p.IsBare() {
		return []byte(quoteTOML(p.Ref)), nil
	}
	fields := []string{"ref = " + quoteTOML(p.Ref)}
	if p.From != "" {
		fields = append(fields, "from = "+quoteTOML(p.From))
	}
	if p.BuildScript != "" {
		fields = append(fields, "build_script = "+quoteTOML(p.BuildScript))
	}
	return []byte("{ " + strings.Join(fields, ", ") + " }"), nil
}

// quoteTOML renders s as a TOML basic string.
func quoteTOML(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *ParserSpec) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if node.Kind == yaml.ScalarNode {
		v = node.Value
	} else if err := node.Decode(&v); err != nil {
		return err
	}
	spec, err := parseParserSpec(v)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*p = spec
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p ParserSpec) MarshalYAML() (any, error) {
	if p.IsBare() {
		return p.Ref, nil
	}
	m := map[string]string{"ref": p.Ref}
	if p.From != "" {
		m["from"] = p.From
	}
	if p.BuildScript != "" {
		m["build_script"] = p.BuildScript
	}
	return m, nil
}
