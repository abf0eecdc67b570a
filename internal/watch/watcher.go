// SPDX-License-Identifier: MPL-2.0

// Package watch reports page file changes with debouncing.
//
// Only the configured page directories are watched, and only events for
// files a pagefile.Filter accepts count. Bursts of events (an editor
// writing a temp file and renaming it) coalesce into one callback.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/invowk/pageshell/internal/pagefile"
)

const defaultDebounce = 300 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dirs are the page directories. Missing ones are skipped.
		Dirs   []string
		Filter pagefile.Filter
		// Debounce is the quiet period before OnChange fires. Zero means 300ms.
		Debounce time.Duration
		// OnChange receives the changed page file paths, sorted.
		OnChange func(ctx context.Context, changed []string) error
		Logger   *slog.Logger
	}

	// Watcher monitors page directories. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		debounce time.Duration
		logger   *slog.Logger
		watched  []string
		started  atomic.Bool
	}
)

// New registers every existing directory in cfg.Dirs.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Filter.Validate(); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	for _, dir := range cfg.Dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			w.logger.Debug("page directory not watched", "dir", dir, "error", err)
			continue
		}
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch: add %s: %w", dir, err)
		}
		w.watched = append(w.watched, dir)
	}
	return w, nil
}

// Watched returns the directories actually being watched.
func (w *Watcher) Watched() []string { return slices.Clone(w.watched) }

// Run processes events until ctx is done. It returns nil on cancellation and
// an error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", "error", err)
		}
	}()

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		busy    atomic.Bool
	)

	var fire func()
	fire = func() {
		if ctx.Err() != nil {
			return
		}
		// A slow callback must not overlap the next one; retry later so the
		// pending set is not lost.
		if !busy.CompareAndSwap(false, true) {
			mu.Lock()
			timer = time.AfterFunc(w.debounce, fire)
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 || w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.logger.Error("page reload failed", "error", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if !w.relevant(evt) {
				continue
			}
			w.logger.Debug("page file event", "path", evt.Name, "op", evt.Op.String())

			mu.Lock()
			pending[filepath.Clean(evt.Name)] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if fatalWatchError(err) {
				return fmt.Errorf("watch: %w", err)
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
		return false
	}
	return w.cfg.Filter.Match(evt.Name)
}
