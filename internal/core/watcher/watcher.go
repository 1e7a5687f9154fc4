// Package watcher reports debounced batches of changed source files.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"winfeatures/internal/shared/observability"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

type Options struct {
	Debounce     time.Duration
	ExcludeDirs  []string
	ExcludeFiles []string
	// Extensions limits reported files; defaults to ".rs".
	Extensions []string
}

type Watcher struct {
	fsWatcher    *fsnotify.Watcher
	debounce     time.Duration
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	extensions   map[string]bool
	onChange     func([]string)
	callbackMu   sync.Mutex

	pending   map[string]struct{}
	pendingMu sync.Mutex
	timer     *time.Timer
	closed    bool
}

// NewWatcher returns os.ErrInvalid when onChange is nil.
func NewWatcher(opts Options, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}
	excludeDirs, err := compile(opts.ExcludeDirs)
	if err != nil {
		return nil, err
	}
	excludeFiles, err := compile(opts.ExcludeFiles)
	if err != nil {
		return nil, err
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{".rs"}
	}
	extensions := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			extensions[ext] = true
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher:    fsw,
		debounce:     opts.Debounce,
		excludeDirs:  excludeDirs,
		excludeFiles: excludeFiles,
		extensions:   extensions,
		onChange:     onChange,
		pending:      make(map[string]struct{}),
	}, nil
}

func compile(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// Watch registers every non-excluded directory under paths and starts the
// event loop.
func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		if err := w.addTree(path); err != nil {
			return err
		}
	}
	go w.run()
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.excludedDir(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.excludedDir(event.Name) {
				return
			}
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
				return
			}
			w.enqueueTree(event.Name)
			return
		}
	}
	if !w.Relevant(event.Name) {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.schedule(event.Name)
	}
}

func (w *Watcher) schedule(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	if w.closed {
		return
	}
	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)
	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.onChange(paths)
}

func (w *Watcher) excludedDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// Relevant reports whether a change to path should be reported.
func (w *Watcher) Relevant(path string) bool {
	base := filepath.Base(path)
	if !w.extensions[strings.ToLower(filepath.Ext(base))] {
		return false
	}
	for _, g := range w.excludeFiles {
		if g.Match(base) {
			return false
		}
	}
	return true
}

func (w *Watcher) enqueueTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if w.Relevant(path) {
			w.schedule(path)
		}
		return nil
	})
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}
