// Package watcher reports changes to the dictionary feed files so a running
// session can rebuild its trie.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Common errors.
var (
	ErrNoPaths        = errors.New("no paths to watch")
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the quiet period before OnChange fires.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithOnChange sets the callback invoked after a burst of changes.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError sets the callback invoked on watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// Watcher monitors a fixed set of files. Directories are watched rather than
// the files so editors that save by rename are seen.
type Watcher struct {
	targets  map[string]bool
	dirs     []string
	debounce time.Duration
	onChange func()
	onError  func(error)

	debouncer *Debouncer
	fsw       *fsnotify.Watcher
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
}

// New creates a watcher for paths. Empty paths are ignored.
func New(paths []string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		targets:  make(map[string]bool),
		debounce: DefaultDebounceDuration,
		onChange: func() {},
		onError:  func(error) {},
	}
	seen := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.targets[abs] = true
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	if len(w.targets) == 0 {
		return nil, ErrNoPaths
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounce)
	return w, nil
}

// Start begins watching until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return ErrAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.fsw = fsw

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.loop(ctx, fsw)
	return nil
}

// Stop ends watching and drops any pending notification.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.fsw == nil {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.fsw.Close()
	w.fsw = nil
	w.mu.Unlock()

	w.wg.Wait()
	w.debouncer.Cancel()
}

// Paths returns the watched files.
func (w *Watcher) Paths() []string {
	out := make([]string, 0, len(w.targets))
	for p := range w.targets {
		out = append(out, p)
	}
	return out
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.targets[filepath.Clean(event.Name)] {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove):
				w.onError(fmt.Errorf("%s: %w", event.Name, ErrFileRemoved))
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				w.debouncer.Trigger(w.onChange)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}
