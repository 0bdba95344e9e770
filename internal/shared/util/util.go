package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SlashPath converts both separator styles to '/' without cleaning.
func SlashPath(s string) string {
	return strings.ReplaceAll(filepath.ToSlash(s), "\\", "/")
}

// HasGlobMeta reports whether pattern uses any glob metacharacter.
func HasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]{}")
}

// RelativeTo returns target relative to base when target lives under base,
// and target unchanged otherwise.
func RelativeTo(base, target string) string {
	if base == "" {
		return target
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return target
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return target
	}
	return rel
}

// SortedStringKeys returns the map's keys in sorted order.
func SortedStringKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WriteFileWithDirs creates parent directories (0755) and writes the file with perm.
func WriteFileWithDirs(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, perm)
}
