package compiler

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler receives the outcome of every compilation in watch mode.
type Handler func(out *Output, err error)

// Watch compiles everything under paths once, then recompiles files as they
// change until ctx is done. Changes are debounced: a burst of events within
// the configured quiet period triggers one recompilation per file.
func (c *Compiler) Watch(ctx context.Context, paths []string, handle Handler) error {
	sources, err := c.Discover(paths)
	if err != nil {
		return err
	}
	for _, src := range sources {
		handle(c.CompileFile(src))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	w := &watchState{compiler: c, watcher: watcher, files: make(map[string]bool)}
	for _, path := range paths {
		if err := w.add(path); err != nil {
			return err
		}
	}
	return w.loop(ctx, handle)
}

type watchState struct {
	compiler *Compiler
	watcher  *fsnotify.Watcher
	roots    []string        // watched directories as given
	files    map[string]bool // files watched by name
}

// add watches a file's directory or a directory tree.
func (w *watchState) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		w.files[filepath.Clean(path)] = true
		return w.watcher.Add(filepath.Dir(path))
	}
	w.roots = append(w.roots, filepath.Clean(path))
	return w.addTree(path)
}

func (w *watchState) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

// source maps a changed file to the source it belongs to.
func (w *watchState) source(name string) (Source, bool) {
	name = filepath.Clean(name)
	if w.files[name] {
		return Source{Path: name, Rel: filepath.Base(name)}, true
	}
	if !w.compiler.build.IsSource(name) {
		return Source{}, false
	}
	rel, ok := w.relToRoot(name)
	if !ok {
		return Source{}, false
	}
	return Source{Path: name, Rel: rel}, true
}

// relToRoot returns path relative to the watched directory containing it.
func (w *watchState) relToRoot(path string) (string, bool) {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return rel, true
	}
	return "", false
}

func (w *watchState) loop(ctx context.Context, handle Handler) error {
	logger := w.compiler.logger
	debounce := w.compiler.build.Debounce

	var timer *time.Timer
	var fire <-chan time.Time
	pending := make(map[string]Source)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && w.watchesTree(event.Name) {
					if err := w.addTree(event.Name); err != nil {
						logger.Warn("failed to watch new directory", slog.String("dir", event.Name), slog.Any("error", err))
					}
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			src, ok := w.source(event.Name)
			if !ok {
				continue
			}
			pending[src.Path] = src

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				logger.Info("change detected", slog.String("file", name))
				handle(w.compiler.CompileFile(pending[name]))
			}
			clear(pending)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

// watchesTree reports whether dir lies under a watched directory tree.
func (w *watchState) watchesTree(dir string) bool {
	dir = filepath.Clean(dir)
	if skipDir(filepath.Base(dir)) {
		return false
	}
	_, ok := w.relToRoot(dir)
	return ok
}
