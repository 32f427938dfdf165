// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/finiq-ai/finiq-tui/internal/history"
	"github.com/finiq-ai/finiq-tui/internal/logging"
	"github.com/finiq-ai/finiq-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotIndexed    = errors.New("history not indexed")
	ErrIndexing      = errors.New("indexing in progress")
	ErrDatabaseError = errors.New("database error")
	ErrInvalidPath   = errors.New("invalid path")
)

// =============================================================================
// HISTORY INDEX
// =============================================================================

// HistoryIndex indexes chat history files for fast full-text search.
type HistoryIndex struct {
	db      *sql.DB
	watcher FileWatcher // fsnotify or polling
	dir     string
	mu      sync.RWMutex
	logger  *zap.Logger

	// Indexing state
	indexing     bool
	indexingMu   sync.Mutex
	lastIndexed  time.Time
	sessionCount int
	userCount    int

	config *Config
}

// Config holds index configuration
type Config struct {
	// Dir is the history directory to index
	Dir string

	// DatabasePath is where to store the SQLite database
	DatabasePath string

	// EnableWatch enables file watching for incremental updates
	EnableWatch bool

	// WatchDebounce is the debounce duration for file change events
	WatchDebounce time.Duration
}

// DefaultConfig returns default configuration for a history directory.
// The database lives next to the history files in ~/.finiq.
func DefaultConfig(dir string) *Config {
	return &Config{
		Dir:           dir,
		DatabasePath:  filepath.Join(filepath.Dir(dir), "index.db"),
		EnableWatch:   true,
		WatchDebounce: 500 * time.Millisecond,
	}
}

// New creates a new history index.
func New(config *Config) (*HistoryIndex, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	info, err := os.Stat(config.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory", ErrInvalidPath)
	}

	if err := os.MkdirAll(filepath.Dir(config.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	idx := &HistoryIndex{
		db:     db,
		dir:    config.Dir,
		config: config,
		logger: logging.L(),
	}

	if err := idx.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Stats are advisory; a fresh database simply reports zero.
	idx.loadStats()

	return idx, nil
}

// initSchema creates the database schema
func (idx *HistoryIndex) initSchema() error {
	if _, err := idx.db.Exec(Schema); err != nil {
		return err
	}
	if _, err := idx.db.Exec(InitMetadata); err != nil {
		return err
	}
	_, err := idx.db.Exec("UPDATE metadata SET value = ? WHERE key = 'history_dir'", idx.dir)
	return err
}

// Close closes the index and releases resources
func (idx *HistoryIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.watcher != nil {
		idx.watcher.Close()
	}
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// =============================================================================
// INDEXING
// =============================================================================

// Index performs a full index of the history directory.
func (idx *HistoryIndex) Index(ctx context.Context) error {
	idx.indexingMu.Lock()
	if idx.indexing {
		idx.indexingMu.Unlock()
		return ErrIndexing
	}
	idx.indexing = true
	idx.indexingMu.Unlock()

	defer func() {
		idx.indexingMu.Lock()
		idx.indexing = false
		idx.indexingMu.Unlock()
	}()

	startTime := time.Now()

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}

	entries, err := os.ReadDir(idx.dir)
	if err != nil {
		return fmt.Errorf("failed to read history directory: %w", err)
	}

	var sessionCount, userCount int
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		userID, ok := userIDFromFilename(entry.Name())
		if !ok || entry.IsDir() {
			continue
		}

		n, err := idx.indexUserFile(tx, filepath.Join(idx.dir, entry.Name()), userID)
		if err != nil {
			// A single bad file must not sink the whole index.
			idx.logger.Warn("skipping unreadable history file",
				zap.String("file", entry.Name()),
				zap.Error(err))
			continue
		}
		userCount++
		sessionCount += n
	}

	now := time.Now().Unix()
	if _, err := tx.Exec("UPDATE metadata SET value = ? WHERE key = 'last_full_index'", now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	idx.mu.Lock()
	idx.lastIndexed = startTime
	idx.sessionCount = sessionCount
	idx.userCount = userCount
	idx.mu.Unlock()

	idx.logger.Info("history indexed",
		zap.Int("users", userCount),
		zap.Int("sessions", sessionCount),
		zap.Duration("took", time.Since(startTime)))

	// Start file watcher if enabled
	if idx.config.EnableWatch && idx.watcher == nil {
		if err := idx.startWatcher(); err != nil {
			idx.logger.Warn("history watcher unavailable", zap.Error(err))
		}
	}

	return nil
}

// indexUserFile indexes one user's history file inside tx and returns the
// number of sessions indexed.
func (idx *HistoryIndex) indexUserFile(tx *sql.Tx, path, userID string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var sessions []*model.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return 0, err
	}

	now := time.Now().Unix()
	for _, s := range sessions {
		_, err := tx.Exec(`
			INSERT INTO sessions (session_id, user_id, title, content, message_count, created_at, updated_at, indexed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(session_id) DO UPDATE SET
				user_id = excluded.user_id,
				title = excluded.title,
				content = excluded.content,
				message_count = excluded.message_count,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at,
				indexed_at = excluded.indexed_at
		`, s.ID, userID, s.Title, flattenMessages(s.Messages), len(s.Messages),
			s.CreatedAt.Unix(), s.UpdatedAt.Unix(), now)
		if err != nil {
			return 0, err
		}
	}
	return len(sessions), nil
}

// reindexUser replaces one user's sessions. Used by the watcher for
// incremental updates.
func (idx *HistoryIndex) reindexUser(path, userID string) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := idx.indexUserFile(tx, path, userID); err != nil {
			return err
		}
	}
	// A missing file means the user's history was cleared; the delete
	// above is the whole update.

	return tx.Commit()
}

// removeUser drops one user's sessions from the index.
func (idx *HistoryIndex) removeUser(userID string) error {
	_, err := idx.db.Exec("DELETE FROM sessions WHERE user_id = ?", userID)
	return err
}

// flattenMessages joins message contents into one searchable string.
func flattenMessages(messages []model.Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Content)
	}
	return b.String()
}

// userIDFromFilename extracts the user ID from a history filename like
// "chat-history-<userID>.json".
func userIDFromFilename(name string) (string, bool) {
	if !strings.HasPrefix(name, history.KeyPrefix) || !strings.HasSuffix(name, ".json") {
		return "", false
	}
	userID := strings.TrimSuffix(strings.TrimPrefix(name, history.KeyPrefix), ".json")
	if userID == "" {
		return "", false
	}
	return userID, true
}

// loadStats loads statistics from the database
func (idx *HistoryIndex) loadStats() error {
	var lastIndexed string
	err := idx.db.QueryRow("SELECT value FROM metadata WHERE key = 'last_full_index'").Scan(&lastIndexed)
	if err != nil {
		return err
	}
	if ts, err := strconv.ParseInt(lastIndexed, 10, 64); err == nil && ts > 0 {
		idx.lastIndexed = time.Unix(ts, 0)
	}

	if err := idx.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&idx.sessionCount); err != nil {
		return err
	}
	return idx.db.QueryRow("SELECT COUNT(DISTINCT user_id) FROM sessions").Scan(&idx.userCount)
}

// =============================================================================
// STATISTICS
// =============================================================================

// Stats returns index statistics
type Stats struct {
	SessionCount int
	UserCount    int
	LastIndexed  time.Time
	IsIndexing   bool
	DatabaseSize int64
}

// Stats returns current index statistics
func (idx *HistoryIndex) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	idx.indexingMu.Lock()
	indexing := idx.indexing
	idx.indexingMu.Unlock()

	var dbSize int64
	if info, err := os.Stat(idx.config.DatabasePath); err == nil {
		dbSize = info.Size()
	}

	return Stats{
		SessionCount: idx.sessionCount,
		UserCount:    idx.userCount,
		LastIndexed:  idx.lastIndexed,
		IsIndexing:   indexing,
		DatabaseSize: dbSize,
	}
}

// IsIndexed returns true if the history has been indexed
func (idx *HistoryIndex) IsIndexed() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return !idx.lastIndexed.IsZero()
}
