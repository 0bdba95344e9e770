package rules

import (
	"sort"
)

// registry is fixed at build time; rules are never discovered at runtime.
var registry = map[string]Rule{
	RequireTSCheckName: RequireTSCheck,
}

// Lookup returns the rule registered under name.
func Lookup(name string) (Rule, bool) {
	r, ok := registry[name]
	return r, ok
}

// Names returns every registered rule name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered rules sorted by name.
func All() []Rule {
	names := Names()
	out := make([]Rule, 0, len(names))
	for _, name := range names {
		out = append(out, registry[name])
	}
	return out
}
