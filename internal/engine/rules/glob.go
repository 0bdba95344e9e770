package rules

import (
	"strings"
	"sync"

	"tscheck/internal/core/errors"
	"tscheck/internal/shared/util"

	"github.com/gobwas/glob"
)

// containsPattern matches a glob anywhere inside a path rather than against
// the whole path.
type containsPattern struct {
	raw     string
	literal string
	globs   []glob.Glob
}

func (p containsPattern) match(path string) bool {
	if p.globs == nil {
		return strings.Contains(path, p.literal)
	}
	for _, g := range p.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// noDot matches the first character of a segment that a wildcard opens.
// Wildcards never match a segment starting with '.'.
const noDot = "[!./]"

// globVariant is one expansion of a pattern. Anchored variants match from the
// start of the path instead of anywhere inside it.
type globVariant struct {
	expr     string
	anchored bool
}

// expandPattern rewrites a pattern into plain gobwas expressions. Each
// "**/" segment forks into a variant that skips it and one that requires at
// least one non-dot segment, since gobwas cannot express that inside braces.
func expandPattern(pattern string) []globVariant {
	var out []globVariant
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		for _, v := range expandSegments(rest) {
			out = append(out, globVariant{expr: "**/" + v}, globVariant{expr: v, anchored: true})
		}
		return out
	}
	for _, v := range expandSegments(pattern) {
		out = append(out, globVariant{expr: v})
	}
	return out
}

func expandSegments(p string) []string {
	variants := []string{""}
	emit := func(s string) {
		for i := range variants {
			variants[i] += s
		}
	}
	fork := func(a, b string) {
		next := make([]string, 0, 2*len(variants))
		for _, v := range variants {
			next = append(next, v+a, v+b)
		}
		variants = next
	}

	depth := 0
	for i := 0; i < len(p); {
		segStart := depth == 0 && (i == 0 || p[i-1] == '/')
		switch {
		case segStart && strings.HasPrefix(p[i:], "**/"):
			fork("", noDot+"**/")
			i += 3
			continue
		case segStart && p[i] == '*' && !strings.HasPrefix(p[i:], "**"):
			// "*foo" may also match "foo" itself.
			if i+1 < len(p) && isPlainByte(p[i+1]) {
				fork(noDot+"*", "")
			} else {
				emit(noDot + "*")
			}
			i++
			continue
		case segStart && p[i] == '?':
			emit(noDot)
			i++
			continue
		}
		switch p[i] {
		case '{', '[':
			depth++
		case '}', ']':
			if depth > 0 {
				depth--
			}
		}
		emit(p[i : i+1])
		i++
	}
	return variants
}

func isPlainByte(b byte) bool {
	return !strings.ContainsRune("*?[]{}/.\\", rune(b))
}

var patternCache = struct {
	sync.RWMutex
	compiled map[string]containsPattern
}{compiled: make(map[string]containsPattern)}

// PathMatchesAnyPattern reports whether any pattern matches some substring of
// path. Both path and patterns use '/' as the separator: '*' and '?' stay
// within a segment and '**' crosses segments. A wildcard opening a segment
// never matches a leading '.', so dotfiles need an explicit pattern.
func PathMatchesAnyPattern(path string, patterns []string) (bool, error) {
	path = util.SlashPath(path)
	for _, raw := range patterns {
		p, err := compileContains(raw)
		if err != nil {
			return false, err
		}
		if p.match(path) {
			return true, nil
		}
	}
	return false, nil
}

func compileContains(raw string) (containsPattern, error) {
	patternCache.RLock()
	p, ok := patternCache.compiled[raw]
	patternCache.RUnlock()
	if ok {
		return p, nil
	}

	norm := strings.TrimPrefix(util.SlashPath(strings.TrimSpace(raw)), "./")
	if norm == "" {
		de := &errors.DomainError{Code: errors.CodeConfiguration, Message: "glob pattern must be a non-empty string"}
		return containsPattern{}, de.WithContext(errors.CtxPattern, raw)
	}

	p = containsPattern{raw: raw}
	if !util.HasGlobMeta(norm) {
		p.literal = norm
	} else {
		for _, v := range expandPattern(norm) {
			expr := v.expr
			if !v.anchored && !strings.HasPrefix(expr, "**") {
				expr = "**" + expr
			}
			if !strings.HasSuffix(expr, "**") {
				expr += "**"
			}
			g, err := glob.Compile(expr, '/')
			if err != nil {
				de := &errors.DomainError{Code: errors.CodeConfiguration, Message: "invalid glob pattern", Err: err}
				return containsPattern{}, de.WithContext(errors.CtxPattern, raw)
			}
			p.globs = append(p.globs, g)
		}
	}

	patternCache.Lock()
	patternCache.compiled[raw] = p
	patternCache.Unlock()
	return p, nil
}

// ValidatePatterns compiles every pattern and returns the first error.
func ValidatePatterns(patterns []string) error {
	for _, raw := range patterns {
		if _, err := compileContains(raw); err != nil {
			return err
		}
	}
	return nil
}
