// Package globs compiles the source and watch patterns of the asset registry.
// Patterns are slash separated and relative to the project root; "*" stays
// within one path segment, "**" spans segments and "{a,b}" lists alternatives.
package globs

import (
	"path"
	"strings"

	"github.com/gobwas/glob"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

const metaChars = "*?[{"

// Normalize converts pattern to the canonical root-relative form: slash
// separated, without a leading "./".
func Normalize(pattern string) string {
	p := strings.ReplaceAll(pattern, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	if p == "" || p == "." {
		return "."
	}
	if strings.ContainsAny(p, metaChars) {
		return p
	}
	return path.Clean(p)
}

// IsLiteral reports whether pattern names a single file.
func IsLiteral(pattern string) bool {
	return !strings.ContainsAny(pattern, metaChars)
}

// Base returns the longest directory prefix of a normalized pattern that
// contains no glob syntax. It is the directory a walk has to start from.
func Base(pattern string) string {
	segments := strings.Split(pattern, "/")
	var lit []string
	for _, s := range segments[:len(segments)-1] {
		if strings.ContainsAny(s, metaChars) {
			break
		}
		lit = append(lit, s)
	}
	if len(lit) == 0 {
		return "."
	}
	return strings.Join(lit, "/")
}

// Matcher matches root-relative slash paths against one pattern.
type Matcher struct {
	pattern string
	globs   []glob.Glob
}

// Compile builds a Matcher for pattern. A "**/" segment also matches zero
// directories, so "scss/**/*.scss" matches "scss/main.scss".
func Compile(pattern string) (*Matcher, error) {
	norm := Normalize(pattern)
	m := &Matcher{pattern: norm}
	for _, v := range expandGlobstar(norm) {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidGlob.Error()), "pattern", pattern)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Pattern returns the normalized pattern.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Match reports whether the root-relative path p matches.
func (m *Matcher) Match(p string) bool {
	p = Normalize(p)
	for _, g := range m.globs {
		if g.Match(p) {
			return true
		}
	}
	return false
}

// expandGlobstar returns pattern plus every variant with a subset of its
// "**/" segments removed.
func expandGlobstar(pattern string) []string {
	idx := strings.Index(pattern, "**/")
	if idx < 0 {
		return []string{pattern}
	}
	head, tail := pattern[:idx], pattern[idx+3:]

	var out []string
	for _, rest := range expandGlobstar(tail) {
		out = append(out, head+"**/"+rest, head+rest)
	}
	return out
}
