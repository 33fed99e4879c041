package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// detectUnknownFields compares the decoded document with the known fields of
// Layer. Parser tables are not checked here: unknown keys inside them are
// errors.
func detectUnknownFields(raw map[string]any) []string {
	var warnings []string

	knownTopLevel := getFields(reflect.TypeOf(Layer{}))
	for _, key := range sortedKeys(raw) {
		if key == "$schema" {
			continue // $schema is explicitly allowed and ignored
		}
		if !knownTopLevel[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
		}
	}

	if ts, ok := raw["tree-sitter"].(map[string]any); ok {
		known := getFields(reflect.TypeOf(TreeSitterLayer{}))
		for _, key := range sortedKeys(ts) {
			if !known[key] {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in tree-sitter (ignored)", key))
			}
		}
	}

	return warnings
}

// getFields returns the known field names of a struct type from its toml tags.
func getFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("toml")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			fields[name] = true
		}
	}
	return fields
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
