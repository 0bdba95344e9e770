package parser

import (
	"sort"
	"strings"
)

// LanguageSpec describes one grammar the front end can load.
type LanguageSpec struct {
	Name       string
	Extensions []string
	Enabled    bool
}

const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
)

// DefaultLanguageRegistry returns the built-in languages keyed by name.
func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		LangJavaScript: {
			Name:       LangJavaScript,
			Extensions: []string{".js", ".mjs", ".cjs", ".jsx"},
			Enabled:    true,
		},
		LangTypeScript: {
			Name:       LangTypeScript,
			Extensions: []string{".ts", ".mts", ".cts"},
			Enabled:    true,
		},
		LangTSX: {
			Name:       LangTSX,
			Extensions: []string{".tsx"},
			Enabled:    true,
		},
	}
}

// BuildLanguageRegistry applies enable/disable overrides on top of the
// defaults. Unknown names are reported back so callers can reject them.
func BuildLanguageRegistry(enabled map[string]bool) (map[string]LanguageSpec, []string) {
	registry := DefaultLanguageRegistry()
	var unknown []string
	for name, on := range enabled {
		key := strings.ToLower(strings.TrimSpace(name))
		spec, ok := registry[key]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		spec.Enabled = on
		registry[key] = spec
	}
	sort.Strings(unknown)
	return registry, unknown
}

func cloneLanguageRegistry(in map[string]LanguageSpec) map[string]LanguageSpec {
	out := make(map[string]LanguageSpec, len(in))
	for id, spec := range in {
		copySpec := spec
		copySpec.Extensions = append([]string(nil), spec.Extensions...)
		out[id] = copySpec
	}
	return out
}
