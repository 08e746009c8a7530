package watcher

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"repotabs/internal/logging"
	"repotabs/internal/ports"
)

// debounceWindow batches bursts of filesystem events (checkouts, installs)
// into a single reconcile trigger
const debounceWindow = 500 * time.Millisecond

// FSWatcher drives reconciliation from filesystem changes under the
// workspace roots, standing in for the host's workspace-folder events
type FSWatcher struct {
	mu      sync.Mutex
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// Verify interface compliance at compile time
var _ ports.WorkspaceWatcher = (*FSWatcher)(nil)

// NewFSWatcher creates an FSWatcher
func NewFSWatcher() *FSWatcher {
	return &FSWatcher{}
}

// Watch implements ports.WorkspaceWatcher.Watch. Only the roots themselves
// are watched; a new or deleted repository shows up as an event on its
// parent root, which is all reconciliation needs.
func (w *FSWatcher) Watch(roots []string, onChange func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return fmt.Errorf("watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	watching := 0
	for _, root := range roots {
		if err := fsw.Add(root); err != nil {
			// A missing root is not fatal; reconcile will drop its tabs
			logging.Logger.Warn("Failed to watch workspace root", "root", root, "error", err)
			continue
		}
		watching++
	}
	logging.Logger.Debug("Workspace watcher started", "roots", watching)

	w.watcher = fsw
	w.done = make(chan struct{})
	go w.run(fsw, w.done, onChange)
	return nil
}

func (w *FSWatcher) run(fsw *fsnotify.Watcher, done chan struct{}, onChange func()) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			logging.Logger.Debug("Workspace event", "op", event.Op.String(), "path", event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, onChange)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logging.Logger.Warn("Workspace watcher error", "error", err)
		}
	}
}

// Close implements ports.WorkspaceWatcher.Close
func (w *FSWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	close(w.done)
	err := w.watcher.Close()
	w.watcher = nil
	return err
}
