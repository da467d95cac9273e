// Package watch regenerates specs when AST dump files change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/retrospec/ast"
	"github.com/teranos/retrospec/errors"
	"github.com/teranos/retrospec/logger"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to
// settle before regenerating.
const DefaultDebounce = 300 * time.Millisecond

// Callback is called once per changed dump file after the debounce period.
type Callback func(ctx context.Context, path string) error

// Watcher watches dump files, or directories of them, for changes.
type Watcher struct {
	watcher        *fsnotify.Watcher
	callback       Callback
	log            *zap.SugaredLogger
	debouncePeriod time.Duration

	// files restricts events to these paths when a file (rather than a
	// directory) was given
	files map[string]bool
	dirs  map[string]bool

	mu            sync.Mutex
	debounceTimer *time.Timer
	pending       map[string]bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debouncePeriod = d }
}

// WithLogger sets the logger for watcher events.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(w *Watcher) { w.log = log }
}

// New creates a watcher over paths. Files are watched through their parent
// directory so editors that replace files on save are still seen.
func New(paths []string, callback Callback, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:        fw,
		callback:       callback,
		debouncePeriod: DefaultDebounce,
		files:          make(map[string]bool),
		dirs:           make(map[string]bool),
		pending:        make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = logger.OrNop(w.log)

	for _, p := range paths {
		if err := w.add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return errors.Wrapf(err, "failed to watch %s", path)
	}

	if !info.IsDir() {
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if err := w.watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
		return nil
	}
	return w.addTree(abs)
}

// addTree watches dir and every directory below it, matching the recursive
// dump search of generate and check.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		if !d.IsDir() || w.dirs[path] {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		w.dirs[path] = true
		return nil
	})
}

// Run watches until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			// Only regenerate on Write or Create events
			if event.Op&fsnotify.Write == 0 && event.Op&fsnotify.Create == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 && w.newSubdir(event.Name) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			w.log.Debugw("dump changed",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.schedule(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

// newSubdir starts watching a directory created below a watched tree.
func (w *Watcher) newSubdir(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil || !w.dirs[filepath.Dir(abs)] {
		return false
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return false
	}
	if err := w.addTree(abs); err != nil {
		w.log.Warnw("failed to watch new directory", logger.FieldFile, abs, logger.FieldError, err)
	}
	return true
}

func (w *Watcher) relevant(name string) bool {
	if !ast.IsDumpFile(name) {
		return false
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return w.files[abs] || w.dirs[filepath.Dir(abs)]
}

// schedule debounces rapid changes; every file touched during the burst is
// regenerated once.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		w.flush(ctx)
	})
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	sort.Strings(paths)
	for _, p := range paths {
		if ctx.Err() != nil {
			return
		}
		if err := w.callback(ctx, p); err != nil {
			// Keep watching; the next save may fix it
			w.log.Errorw("regeneration failed",
				logger.FieldFile, p,
				logger.FieldError, err)
		}
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	w.watcher.Close()
}
