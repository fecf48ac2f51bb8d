// Package watcher notifies callers about changed model files in a
// directory, debouncing the event bursts that slicers and editors produce
// while saving.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ModelWatcher watches a directory for changes to files with a set of
// extensions and invokes a callback once per settled change.
type ModelWatcher struct {
	watcher    *fsnotify.Watcher
	extensions map[string]bool
	callback   func(string)
	debounce   time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher for the given extensions (".stl", ".3mf").
// Extension matching is case-insensitive.
func New(extensions []string, debounce time.Duration, callback func(string)) (*ModelWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}

	return &ModelWatcher{
		watcher:    fsw,
		extensions: exts,
		callback:   callback,
		debounce:   debounce,
		timers:     make(map[string]*time.Timer),
	}, nil
}

// Watch adds a directory to the watch set
func (mw *ModelWatcher) Watch(dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", dir, err)
	}
	if err := mw.watcher.Add(absDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", absDir, err)
	}
	return nil
}

// Start begins dispatching change events in a background goroutine
func (mw *ModelWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-mw.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if !mw.extensions[strings.ToLower(filepath.Ext(event.Name))] {
					continue
				}
				mw.handleChange(event.Name)

			case err, ok := <-mw.watcher.Errors:
				if !ok {
					return
				}
				fmt.Printf("Watcher error: %v\n", err)
			}
		}
	}()
}

// handleChange resets the per-file debounce timer
func (mw *ModelWatcher) handleChange(path string) {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if timer, exists := mw.timers[path]; exists {
		timer.Stop()
	}
	mw.timers[path] = time.AfterFunc(mw.debounce, func() {
		mw.callback(path)
	})
}

// Close stops the watcher
func (mw *ModelWatcher) Close() error {
	return mw.watcher.Close()
}
