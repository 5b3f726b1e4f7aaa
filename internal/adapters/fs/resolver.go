package fs

import (
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/globs"
	"go.trai.ch/zerr"
)

var _ ports.SourceResolver = (*Resolver)(nil)

// Resolver expands source globs into the files they match.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// Resolve returns the root-relative slash paths matched by patterns.
// Matches are ordered by pattern first and lexically within one pattern.
// A file matched by several patterns appears once, at its first position.
// A literal pattern naming a missing file is an error; a glob matching
// nothing is not.
func (r *Resolver) Resolve(root string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, pattern := range patterns {
		norm := globs.Normalize(pattern)

		if globs.IsLiteral(norm) {
			info, err := os.Stat(filepath.Join(root, filepath.FromSlash(norm)))
			if err != nil || info.IsDir() {
				return nil, zerr.With(zerr.With(domain.ErrSourceNotFound, "path", norm), "root", root)
			}
			add(norm)
			continue
		}

		matches, err := r.expand(root, norm)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			add(m)
		}
	}

	return out, nil
}

func (r *Resolver) expand(root, pattern string) ([]string, error) {
	matcher, err := globs.Compile(pattern)
	if err != nil {
		return nil, err
	}

	base := filepath.Join(root, filepath.FromSlash(globs.Base(pattern)))
	var matches []string
	for path := range r.walker.WalkFiles(base) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}
		rel = filepath.ToSlash(rel)
		if matcher.Match(rel) {
			matches = append(matches, rel)
		}
	}
	slices.Sort(matches)
	return matches, nil
}
