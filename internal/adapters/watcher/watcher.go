// Package watcher reports changes below a project root using fsnotify.
//
// Every directory is watched, except version control metadata, installed
// packages and the stylesheet compiler cache. Directories created while
// watching are added as they appear. Scratch files of atomic writes and
// editor swap files never produce events.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// ignoredDirs are never descended into.
var ignoredDirs = map[string]bool{
	".git":             true,
	".hg":              true,
	".sass-cache":      true,
	"bower_components": true,
	"node_modules":     true,
}

// scratchSuffixes end files that are written and removed by tools while
// saving another file.
var scratchSuffixes = []string{domain.TempSuffix, "~", ".swp", ".swx"}

const eventBuffer = 128

// Watcher watches a project tree.
type Watcher struct {
	logger ports.Logger

	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	events chan ports.WatchEvent
}

// NewWatcher creates a watcher. Nothing is watched until Start.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{
		logger: logger,
		events: make(chan ports.WatchEvent, eventBuffer),
	}
}

// Start watches every directory below root. Events are delivered until ctx
// is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw != nil {
		return zerr.With(zerr.Wrap(domain.ErrWatcherStartFailed, "already started"), "root", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}
	for dir := range directories(root) {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "path", dir)
		}
	}

	w.fsw = fsw
	go w.forward(ctx, fsw)
	return nil
}

// Stop closes the underlying watcher, which ends Events.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw == nil {
		return nil
	}
	return w.fsw.Close()
}

// Events returns the changes in arrival order.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range w.events {
			if !yield(ev) {
				return
			}
		}
	}
}

// directories yields root and every directory below it that is not ignored.
// Unreadable directories are skipped.
func directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			switch {
			case err != nil:
				return nil //nolint:nilerr // Unreadable directories are not watched.
			case !d.IsDir():
				return nil
			case path != root && ignoredDirs[d.Name()]:
				return fs.SkipDir
			case !yield(path):
				return filepath.SkipAll
			default:
				return nil
			}
		})
	}
}

// forward translates fsnotify events until ctx is done or fsw is closed.
func (w *Watcher) forward(ctx context.Context, fsw *fsnotify.Watcher) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return

		case raw, ok := <-fsw.Events:
			if !ok {
				return
			}
			ev, ok := convertEvent(raw)
			if !ok {
				continue
			}
			if ev.Operation == ports.OpCreate {
				w.addTree(fsw, ev.Path)
			}
			select {
			case w.events <- ev:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher: " + err.Error())
		}
	}
}

// addTree watches a directory created after Start, along with anything
// created inside it before it was added.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || ignoredDirs[info.Name()] {
		return
	}
	for dir := range directories(path) {
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn("file watcher: cannot watch " + dir + ": " + err.Error())
		}
	}
}

// convertEvent maps an fsnotify event to a WatchEvent. Chmod-only events and
// scratch files are dropped.
func convertEvent(raw fsnotify.Event) (ports.WatchEvent, bool) {
	if isScratch(filepath.Base(raw.Name)) {
		return ports.WatchEvent{}, false
	}

	ev := ports.WatchEvent{Path: raw.Name}
	switch {
	case raw.Has(fsnotify.Write):
		ev.Operation = ports.OpWrite
	case raw.Has(fsnotify.Create):
		ev.Operation = ports.OpCreate
	case raw.Has(fsnotify.Remove):
		ev.Operation = ports.OpRemove
	case raw.Has(fsnotify.Rename):
		ev.Operation = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ev, true
}

func isScratch(name string) bool {
	for _, suffix := range scratchSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	// Vim probes directory writability with a file named 4913.
	return name == "4913"
}
