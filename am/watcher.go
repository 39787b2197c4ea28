package am

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/compdoc/errors"
	"github.com/teranos/compdoc/logger"
)

// Watcher watches the config file, the pipeline inputs and the source
// directories, and triggers a callback once changes settle.
// Callbacks never overlap: changes that arrive during a callback are
// merged into a single follow-up call.
type Watcher struct {
	watcher        *fsnotify.Watcher
	callback       ChangeCallback
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	// pending holds changed paths not yet handed to the callback
	pending []string
	// ignored holds our own artifact paths so writes do not retrigger a run
	ignored map[string]bool
	// settled wakes the run loop; one buffered slot coalesces triggers
	settled  chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// ChangeCallback is called after a settled change with the paths that changed
type ChangeCallback func(changed []string) error

// NewWatcher creates a watcher over paths (files or directories)
func NewWatcher(paths []string, debounce time.Duration, callback ChangeCallback) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		if err := watcher.Add(p); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", p)
		}
	}

	return &Watcher{
		watcher:        watcher,
		callback:       callback,
		debouncePeriod: debounce,
		ignored:        make(map[string]bool),
		settled:        make(chan struct{}, 1),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}, nil
}

// Ignore excludes paths from triggering the callback
func (w *Watcher) Ignore(paths ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		w.ignored[filepath.Clean(p)] = true
	}
}

// Start begins watching for changes
func (w *Watcher) Start() {
	go w.watchLoop()
	go w.runLoop()
}

// Done is closed when the watch loop exits
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) || w.isIgnored(event.Name) {
				continue
			}

			logger.Debugw("Watcher detected change",
				logger.FieldFile, event.Name,
				"op", event.Op.String())

			w.mu.Lock()
			w.pending = append(w.pending, event.Name)
			w.mu.Unlock()
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Watcher error",
				logger.FieldError, err)
		}
	}
}

// runLoop is the only goroutine that invokes the callback
func (w *Watcher) runLoop() {
	for {
		select {
		case <-w.stop:
			return
		case <-w.settled:
		}

		w.mu.Lock()
		changed := dedupe(w.pending)
		w.pending = nil
		w.mu.Unlock()
		if len(changed) == 0 {
			continue
		}

		if err := w.callback(changed); err != nil {
			logger.Errorw("Regeneration after change failed",
				logger.FieldError, err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) isIgnored(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ignored[filepath.Clean(path)] {
		return true
	}
	// Atomic writes go through a temp file next to the target
	base := filepath.Base(path)
	return len(base) > 0 && base[0] == '.'
}

// schedule debounces rapid changes into one wake-up of the run loop
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		select {
		case w.settled <- struct{}{}:
		default:
			// A wake-up is already queued; it will pick up these paths
		}
	})
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// Stop stops watching. A callback already running is not interrupted.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.stop) })
	return w.watcher.Close()
}
