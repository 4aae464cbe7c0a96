// Package watcher reports changes to a single file, such as the keymap,
// so the editor can reload it.
//
// The watcher runs its own goroutine but never touches editor state: it
// only posts to a channel that the host loop drains on its own tick.
package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Event reports that the watched file changed.
type Event struct {
	// Path is the absolute path of the watched file.
	Path string

	// Time is when the change settled.
	Time time.Time
}

// Watcher monitors one file for writes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	events    chan Event
	errors    chan error
	done      chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsw,
		path:      abs,
		debounce:  DefaultDebounce,
		events:    make(chan Event, 1),
		errors:    make(chan error, 1),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. The directory is watched rather than the file
// so that editors which save by rename are still seen.
func (w *Watcher) Start() (<-chan Event, error) {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	go w.loop()

	return w.events, nil
}

// Errors returns watch errors. At most one is buffered; later ones are
// dropped until it is read.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case now := <-fire:
			fire = nil
			select {
			case w.events <- Event{Path: w.path, Time: now}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent reports whether event is a write or create of the file.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs == w.path
}
