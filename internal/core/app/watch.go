package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// ChangedFiles narrows a batch of watcher paths to existing, supported files
// outside excluded directories, sorted and de-duplicated.
func (a *App) ChangedFiles(paths []string) []string {
	dirGlobs, err := compileGlobs(a.Config.Exclude.Dirs, "exclude dir")
	if err != nil {
		return nil
	}
	fileGlobs, err := compileGlobs(a.Config.Exclude.Files, "exclude file")
	if err != nil {
		return nil
	}

	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = a.absPath(p)
		if seen[p] || !a.Parser.IsSupportedPath(p) || matchesAny(fileGlobs, filepath.Base(p)) {
			continue
		}
		if underExcludedDir(a.cwd, p, dirGlobs) {
			continue
		}
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// underExcludedDir checks every directory between root and path.
func underExcludedDir(root, path string, dirGlobs []glob.Glob) bool {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if matchesAny(dirGlobs, part) {
			return true
		}
	}
	return false
}
