// Package watcher watches the knowledge source directory with fsnotify and
// schedules a debounced reload whenever a matching file changes.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/papercomputeco/recall/pkg/knowledge"
	"github.com/papercomputeco/recall/pkg/worker"
)

const defaultDebounce = 400 * time.Millisecond

// Enqueuer accepts reload jobs. worker.Pool satisfies it.
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// Watcher turns bursts of file events under one root into single reload jobs.
type Watcher struct {
	root     string
	suffixes []string
	jobs     Enqueuer
	debounce time.Duration
	logger   *zap.Logger

	// mu guards watcher, timer, started and pending
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	pending  string
	started  bool
	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce sets the quiet period after the last event before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for root. Only files with one of suffixes trigger a
// reload; empty suffixes mean knowledge.DefaultSuffixes.
func New(root string, suffixes []string, jobs Enqueuer, opts ...Option) *Watcher {
	w := &Watcher{
		root:     filepath.Clean(root),
		suffixes: knowledge.NormalizeSuffixes(suffixes),
		jobs:     jobs,
		debounce: defaultDebounce,
		logger:   zap.NewNop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start adds the directory tree to the watch list and processes events until
// ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return nil
	}

	info, err := os.Stat(w.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("watch root is not a directory: " + w.root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fw
	if err := w.addTree(w.root); err != nil {
		_ = fw.Close()
		w.watcher = nil
		return err
	}
	w.started = true

	w.logger.Debug("watcher starting",
		zap.String("root", w.root),
		zap.Strings("suffixes", w.suffixes),
		zap.Duration("debounce", w.debounce),
	)

	go w.run(ctx, fw)
	return nil
}

// Stop stops the watcher, cancels a pending reload and releases resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.watcher != nil {
		_ = w.watcher.Close()
		w.watcher = nil
	}
	w.started = false
	w.mu.Unlock()

	w.stopOnce.Do(func() { close(w.done) })
}

// Done is closed once the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", ev.Name))

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			w.mu.Lock()
			if w.watcher != nil {
				if err := w.addTree(ev.Name); err != nil {
					w.logger.Warn("watcher failed to add directory", zap.String("path", ev.Name), zap.Error(err))
				}
			}
			w.mu.Unlock()
			w.schedule(ev.Name)
			return
		}
	}

	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if !knowledge.MatchesSuffix(ev.Name, w.suffixes) {
		return
	}
	w.schedule(ev.Name)
}

// schedule restarts the quiet-period timer; the reload fires once it expires.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.pending = path
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	path := w.pending
	w.pending = ""
	w.timer = nil
	w.mu.Unlock()

	w.logger.Debug("watcher scheduling reload (debounced)", zap.String("trigger", path))
	w.jobs.Enqueue(worker.Job{Dir: w.root, Reason: "changed: " + path})
}

// addTree watches dir and every directory below it. Must hold w.mu.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return err
		}
		w.logger.Debug("watcher added directory", zap.String("path", path))
		return nil
	})
}
