// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists chat sessions per user.
package history

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/finiq-ai/finiq-tui/internal/util"
)

// =============================================================================
// KV INTERFACE
// =============================================================================

// KV is the minimal key-value surface the session store persists through.
// Implementations must make Set a total replace of the previous value.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes the key. Removing a missing key is not an error.
	Remove(key string) error
}

// =============================================================================
// FILE-BACKED KV
// =============================================================================

// FileKV stores each key as one JSON file in a directory.
// Writes are atomic (temp file + fsync + rename), so a reader never sees a
// partially written value.
type FileKV struct {
	dir string
}

// NewFileKV creates a file-backed KV rooted at dir.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileKV{dir: dir}, nil
}

// DefaultDir returns the standard history directory, ~/.finiq/history.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".finiq", "history"), nil
}

// Dir returns the backing directory.
func (f *FileKV) Dir() string {
	return f.dir
}

// Get implements KV.
func (f *FileKV) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// Set implements KV.
// History files are 0600: chat transcripts are private to the OS user.
func (f *FileKV) Set(key, value string) error {
	return util.AtomicWriteFile(f.path(key), []byte(value), 0o600)
}

// Remove implements KV.
func (f *FileKV) Remove(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// =============================================================================
// IN-MEMORY KV
// =============================================================================

// MemoryKV is an in-memory KV for tests.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Get implements KV.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements KV.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Remove implements KV.
func (m *MemoryKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
