// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// =============================================================================
// FILE WATCHER
// =============================================================================

// FileWatcher watches the history directory and keeps the index current.
type FileWatcher interface {
	Close() error
}

// startWatcher starts the best available watcher for the history directory.
// fsnotify can fail on network filesystems and some containers, so we fall
// back to polling.
func (idx *HistoryIndex) startWatcher() error {
	var w FileWatcher
	fw, err := newFsnotifyWatcher(idx)
	if err != nil {
		idx.logger.Warn("fsnotify unavailable, falling back to polling", zap.Error(err))
		w = newPollingWatcher(idx, 5*time.Second)
	} else {
		w = fw
	}
	idx.watcher = w
	return nil
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// fsnotifyWatcher uses OS file notifications with debouncing. History writes
// are atomic rename-into-place, so a single save can produce several events
// for the same file in quick succession.
type fsnotifyWatcher struct {
	idx     *HistoryIndex
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc

	mu      sync.Mutex
	pending map[string]time.Time // path -> last event time
}

func newFsnotifyWatcher(idx *HistoryIndex) (*fsnotifyWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(idx.dir); err != nil {
		watcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &fsnotifyWatcher{
		idx:     idx,
		watcher: watcher,
		cancel:  cancel,
		pending: make(map[string]time.Time),
	}

	go w.processEvents(ctx)
	go w.processPending(ctx)

	idx.logger.Debug("watching history directory", zap.String("dir", idx.dir))
	return w, nil
}

// processEvents collects raw events into the pending map
func (w *fsnotifyWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if _, match := userIDFromFilename(filepath.Base(event.Name)); !match {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.idx.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// processPending flushes debounced changes to the index
func (w *fsnotifyWatcher) processPending(ctx context.Context) {
	debounce := w.idx.config.WatchDebounce
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			var ready []string

			w.mu.Lock()
			for path, last := range w.pending {
				if now.Sub(last) >= debounce {
					ready = append(ready, path)
					delete(w.pending, path)
				}
			}
			w.mu.Unlock()

			for _, path := range ready {
				w.idx.handleFileChange(path)
			}
		}
	}
}

func (w *fsnotifyWatcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

// handleFileChange reindexes or removes one user's sessions after a change.
// Index failures are logged and never surfaced to the caller; the next full
// index repairs any drift.
func (idx *HistoryIndex) handleFileChange(path string) {
	userID, ok := userIDFromFilename(filepath.Base(path))
	if !ok {
		return
	}

	var err error
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		err = idx.removeUser(userID)
	} else {
		err = idx.reindexUser(path, userID)
	}
	if err != nil {
		idx.logger.Warn("incremental index update failed",
			zap.String("user", userID),
			zap.Error(err))
		return
	}

	// Refresh counters
	idx.mu.Lock()
	idx.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&idx.sessionCount)
	idx.db.QueryRow("SELECT COUNT(DISTINCT user_id) FROM sessions").Scan(&idx.userCount)
	idx.mu.Unlock()

	idx.logger.Debug("history file reindexed", zap.String("user", userID))
}

// =============================================================================
// POLLING WATCHER
// =============================================================================

// pollingWatcher periodically compares file modification times. Slower than
// fsnotify but works everywhere.
type pollingWatcher struct {
	idx      *HistoryIndex
	interval time.Duration
	cancel   context.CancelFunc

	mu       sync.Mutex
	lastSeen map[string]time.Time // path -> mtime
}

func newPollingWatcher(idx *HistoryIndex, interval time.Duration) *pollingWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &pollingWatcher{
		idx:      idx,
		interval: interval,
		cancel:   cancel,
		lastSeen: make(map[string]time.Time),
	}
	w.snapshot()
	go w.poll(ctx)
	return w
}

// snapshot records current mtimes without triggering updates
func (w *pollingWatcher) snapshot() {
	entries, err := os.ReadDir(w.idx.dir)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, entry := range entries {
		if _, ok := userIDFromFilename(entry.Name()); !ok {
			continue
		}
		if info, err := entry.Info(); err == nil {
			w.lastSeen[filepath.Join(w.idx.dir, entry.Name())] = info.ModTime()
		}
	}
}

func (w *pollingWatcher) poll(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// scan diffs the directory against the last snapshot
func (w *pollingWatcher) scan() {
	entries, err := os.ReadDir(w.idx.dir)
	if err != nil {
		return
	}

	current := make(map[string]time.Time)
	for _, entry := range entries {
		if _, ok := userIDFromFilename(entry.Name()); !ok {
			continue
		}
		if info, err := entry.Info(); err == nil {
			current[filepath.Join(w.idx.dir, entry.Name())] = info.ModTime()
		}
	}

	var changed, removed []string
	w.mu.Lock()
	for path, mtime := range current {
		if last, ok := w.lastSeen[path]; !ok || mtime.After(last) {
			changed = append(changed, path)
		}
	}
	for path := range w.lastSeen {
		if _, ok := current[path]; !ok {
			removed = append(removed, path)
		}
	}
	w.lastSeen = current
	w.mu.Unlock()

	for _, path := range changed {
		w.idx.handleFileChange(path)
	}
	for _, path := range removed {
		w.idx.handleFileChange(path)
	}
}

func (w *pollingWatcher) Close() error {
	w.cancel()
	return nil
}
