// Package watcher reports edits to the config file so the touchpad can pick up
// a new threshold without restarting.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/swipe/internal/log"
)

// Config holds watcher configuration options.
type Config struct {
	Path        string
	DebounceDur time.Duration
}

// DefaultConfig watches path with a 250ms quiet period.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		DebounceDur: 250 * time.Millisecond,
	}
}

// Watcher signals once per burst of writes to a single file.
//
// The parent directory is watched rather than the file itself: editors and
// config.SaveThreshold replace the file by rename, which drops a watch on
// the old inode.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration

	changes  chan struct{}
	quit     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for cfg.Path. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsw:      fsw,
		path:     filepath.Clean(cfg.Path),
		debounce: cfg.DebounceDur,
		changes:  make(chan struct{}, 1),
		quit:     make(chan struct{}),
	}, nil
}

// Start watches the file's directory and returns the change channel.
// The channel holds at most one pending signal; it is never closed.
func (w *Watcher) Start() (<-chan struct{}, error) {
	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}
	log.Debug(log.CatWatcher, "watching", "path", w.path, "debounce", w.debounce)

	go w.run()
	return w.changes, nil
}

// Stop ends the watch. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.quit)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) run() {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	// fire is nil while no burst is pending so the select ignores the timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.quit:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.matches(ev) {
				continue
			}
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			log.Debug(log.CatWatcher, "config changed", "path", w.path)
			select {
			case w.changes <- struct{}{}:
			default:
				// a signal is already pending
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "fsnotify error", err, "path", w.path)
		}
	}
}

// matches reports whether ev is a write to the watched file or the file
// being (re)created in place.
func (w *Watcher) matches(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	return filepath.Clean(ev.Name) == w.path
}
