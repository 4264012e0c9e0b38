// Package watcher handles file system watching for the daemon.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/emberhearth/hearth/internal/manifest"
)

// DebounceInterval coalesces bursts of writes to the same manifest.
const DebounceInterval = 100 * time.Millisecond

// Handlers receive debounced change notifications.
type Handlers struct {
	// ManifestChanged is called with the project directory whose
	// package.json changed.
	ManifestChanged func(projectPath string)
	// IndexChanged is called when the watched project list file changed.
	IndexChanged func()
}

// Watcher watches project directories for package.json changes.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	handlers   Handlers
	indexFile  string
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	projects   map[string]struct{} // watched project dirs
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
	logger     *log.Logger
}

// New creates a new file system watcher.
func New(h Handlers) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		handlers:  h,
		done:      make(chan struct{}),
		projects:  make(map[string]struct{}),
		debounce:  make(map[string]*time.Timer),
		logger:    log.WithPrefix("watcher"),
	}, nil
}

// Start starts processing events.
func (w *Watcher) Start() {
	go w.processEvents()
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, t := range w.debounce {
			t.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

// WatchIndex watches the project list file at path.
func (w *Watcher) WatchIndex(path string) error {
	if err := w.fsWatcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	w.mu.Lock()
	w.indexFile = filepath.Clean(path)
	w.mu.Unlock()
	return nil
}

// WatchProject starts watching a project directory. The directory itself is
// watched rather than package.json, so atomic replacements are seen.
func (w *Watcher) WatchProject(projectPath string) error {
	dir := filepath.Clean(projectPath)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.projects[dir]; ok {
		return nil
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return err
	}
	w.projects[dir] = struct{}{}

	w.logger.Debug("watching project", "path", dir)
	return nil
}

// UnwatchProject stops watching a project directory.
func (w *Watcher) UnwatchProject(projectPath string) {
	dir := filepath.Clean(projectPath)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.projects[dir]; !ok {
		return
	}
	delete(w.projects, dir)
	_ = w.fsWatcher.Remove(dir)
}

// Watched returns the watched project directories.
func (w *Watcher) Watched() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, 0, len(w.projects))
	for dir := range w.projects {
		out = append(out, dir)
	}
	return out
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}

// handleEvent filters for manifest writes. Rename matters: editors save
// by writing a temp file and renaming it over the target.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	name := filepath.Clean(event.Name)

	w.mu.RLock()
	indexFile := w.indexFile
	w.mu.RUnlock()
	if indexFile != "" && name == indexFile {
		w.debounceEvent(name, func() {
			w.logger.Debug("project list changed", "path", name)
			if w.handlers.IndexChanged != nil {
				w.handlers.IndexChanged()
			}
		})
		return
	}

	if filepath.Base(name) != manifest.FileName {
		return
	}

	dir := filepath.Dir(name)
	w.mu.RLock()
	_, watched := w.projects[dir]
	w.mu.RUnlock()
	if !watched {
		return
	}

	w.debounceEvent(name, func() {
		w.logger.Debug("manifest changed", "path", dir)
		if w.handlers.ManifestChanged != nil {
			w.handlers.ManifestChanged(dir)
		}
	})
}

func (w *Watcher) debounceEvent(key string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[key]; ok {
		timer.Stop()
	}

	w.debounce[key] = time.AfterFunc(DebounceInterval, func() {
		w.debounceMu.Lock()
		delete(w.debounce, key)
		w.debounceMu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		fn()
	})
}
