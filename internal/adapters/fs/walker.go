// Package fs provides file system adapters for resolving source globs and
// writing pipeline outputs.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"go.trai.ch/assetpipe/internal/core/domain"
)

// skippedDirs are never descended into while resolving globs.
var skippedDirs = map[string]struct{}{
	".git":             {},
	".hg":              {},
	".sass-cache":      {},
	"bower_components": {},
	"node_modules":     {},
}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file below dir, skipping version control,
// dependency and cache directories and the scratch files of in-flight
// writes. Yielded paths include dir as prefix. A missing dir yields nothing.
func (w *Walker) WalkFiles(dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if _, skip := skippedDirs[d.Name()]; skip && path != dir {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() || isScratch(d.Name()) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// isScratch reports whether name is a temporary file created by Writer.
func isScratch(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, domain.TempSuffix)
}
