package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DebounceWindow is the quiet period applied before a change event is
// forwarded, so editor autosave bursts coalesce into one re-check.
const DebounceWindow = 200 * time.Millisecond

// Event denotes "something under the watched path was modified".
type Event struct {
	Path string
	// Gen identifies the subscription the event belongs to. Events from a
	// replaced subscription carry a stale generation and are dropped.
	Gen uint64
}

// Watcher monitors the directory of the currently selected exercise. The
// watched path is swapped with Watch when navigation changes exercises; no
// event for the old path is delivered after the swap.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    *log.Logger

	// Events delivers debounced change notifications.
	Events chan Event

	done chan struct{}
	gen  atomic.Uint64

	mu      sync.Mutex
	root    string
	ignorer *Ignorer
	watched []string
}

// NewWatcher creates a watcher with no subscription yet. Call Watch to
// start observing a path.
func NewWatcher(logger *log.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		logger:    logger,
		Events:    make(chan Event, 10), // Buffered to prevent blocking
		done:      make(chan struct{}),
	}

	go w.loop()

	return w, nil
}

// Watch replaces the current subscription with root and its subdirectories.
// Any event still pending for the previous subscription is discarded.
func (w *Watcher) Watch(root string) error {
	root = filepath.Clean(root)

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, path := range w.watched {
		// Removal can fail for paths deleted since they were added;
		// the kernel watch is gone either way.
		_ = w.fsWatcher.Remove(path)
	}
	w.watched = w.watched[:0]
	w.gen.Add(1)
	w.root = root
	w.ignorer = NewIgnorer(root)

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if w.ignorer.ShouldIgnore(path, root) {
				return filepath.SkipDir
			}
			if err := w.fsWatcher.Add(path); err != nil {
				return err
			}
			w.watched = append(w.watched, path)
		}
		return nil
	})
}

// Gen returns the current subscription generation, for consumers that want
// to double-check an event is not stale.
func (w *Watcher) Gen() uint64 {
	return w.gen.Load()
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() {
	close(w.done)
	w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			// Chmod events are noisy and never mean a save.
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}

			// Root and generation are snapshotted together: an event for
			// a previous root can be read after Watch already swapped the
			// subscription, and would otherwise be stamped with the new
			// generation.
			w.mu.Lock()
			root := w.root
			gen := w.gen.Load()
			ignored := w.ignorer != nil && w.ignorer.ShouldIgnore(event.Name, root)
			w.mu.Unlock()
			if ignored || !underRoot(event.Name, root) {
				continue
			}

			// A directory created inside the subscription must be
			// tracked too.
			isDir := false
			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					isDir = true
					w.mu.Lock()
					if err := w.fsWatcher.Add(event.Name); err == nil {
						w.watched = append(w.watched, event.Name)
					}
					w.mu.Unlock()
				}
			}

			if !isDir && !IsSourceFile(event.Name) {
				continue
			}

			// Debounce: restart the quiet period on every event. The
			// generation from the snapshot above is re-checked when the
			// timer fires, so a re-watch in between invalidates the event.
			name := event.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(DebounceWindow, func() {
				if w.gen.Load() != gen {
					return
				}
				select {
				case w.Events <- Event{Path: name, Gen: gen}:
				case <-w.done:
				}
			})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("watcher error", "err", err)
			}
		}
	}
}

// underRoot reports whether path lies inside root, as both appear in
// fsnotify events (root itself counts).
func underRoot(path, root string) bool {
	if root == "" {
		return false
	}
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(os.PathSeparator))
}
