// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists chat sessions per user.
package history

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/finiq-ai/finiq-tui/internal/model"
)

// KeyPrefix namespaces persistence entries per user. The userID is opaque;
// the store never parses it.
const KeyPrefix = "chat-history-"

// =============================================================================
// SESSION STORE
// =============================================================================

// Store keeps the active user's chat sessions in memory and mirrors every
// mutation to the backing KV as one whole-value write.
//
// The current-session pointer is an explicit field here rather than package
// state, so independent stores (and tests) do not interfere.
type Store struct {
	kv     KV
	logger *zap.Logger

	userID    string
	sessions  []*model.Session
	currentID string
}

// NewStore creates a store over the given KV. A nil logger is replaced with
// a no-op logger.
func NewStore(kv KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger}
}

// =============================================================================
// LOAD / LIST
// =============================================================================

// LoadAll makes userID the active user and returns their saved sessions,
// most recently updated first. Missing or unreadable data degrades to an
// empty list.
func (s *Store) LoadAll(userID string) []*model.Session {
	s.ensureUser(userID)
	return s.Sessions()
}

// Sessions returns the active user's sessions, most recently updated
// first. Callers get clones; mutating them does not touch stored state.
func (s *Store) Sessions() []*model.Session {
	out := make([]*model.Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	// Stable: sessions sharing an UpdatedAt keep their existing order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Search returns the active user's sessions whose title or message
// contents match the query, case-insensitively, most recent first.
func (s *Store) Search(query string) []*model.Session {
	var out []*model.Session
	for _, sess := range s.Sessions() {
		if sess.Matches(query) {
			out = append(out, sess)
		}
	}
	return out
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateSession allocates a new empty session for userID, makes it the
// current session, persists the list, and returns the new session's ID.
// An empty title gets the date-based placeholder.
func (s *Store) CreateSession(userID, title string) string {
	s.ensureUser(userID)

	sess := model.NewSession(title)
	s.sessions = append([]*model.Session{sess}, s.sessions...)
	s.currentID = sess.ID
	s.persist()

	return sess.ID
}

// UpdateSession replaces the full message list of the identified session,
// rederives a placeholder title from the first user message, refreshes
// UpdatedAt, and persists. Unknown IDs are a silent no-op. Callers pass the
// complete desired message list every time; this is not an append.
func (s *Store) UpdateSession(sessionID string, messages []model.Message) {
	sess := s.find(sessionID)
	if sess == nil {
		s.logger.Debug("update for unknown session", zap.String("session_id", sessionID))
		return
	}

	sess.Messages = make([]model.Message, len(messages))
	copy(sess.Messages, messages)
	sess.DeriveTitle()
	sess.UpdatedAt = time.Now()

	s.persist()
}

// RenameSession sets an explicit title on the identified session and
// persists. Explicit titles are never overwritten by placeholder
// rederivation. Unknown IDs and empty titles are a no-op.
func (s *Store) RenameSession(sessionID, title string) {
	sess := s.find(sessionID)
	if sess == nil || strings.TrimSpace(title) == "" {
		return
	}

	sess.Title = strings.TrimSpace(title)
	sess.UpdatedAt = time.Now()
	s.persist()
}

// DeleteSession removes the identified session and persists the change.
// Deleting the current session clears the current pointer. Unknown IDs are
// a no-op.
func (s *Store) DeleteSession(sessionID string) {
	idx := -1
	for i, sess := range s.sessions {
		if sess.ID == sessionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	if s.currentID == sessionID {
		s.currentID = ""
	}
	s.persist()
}

// LoadSession returns the identified session and marks it current.
// The second return is false if the ID is unknown for the active user.
func (s *Store) LoadSession(sessionID string) (*model.Session, bool) {
	sess := s.find(sessionID)
	if sess == nil {
		return nil, false
	}
	s.currentID = sessionID
	return sess.Clone(), true
}

// ClearAll erases everything stored for userID: the in-memory list, the
// current pointer, and the persisted entry.
func (s *Store) ClearAll(userID string) {
	if err := s.kv.Remove(KeyPrefix + userID); err != nil {
		s.logger.Error("failed to clear history", zap.String("user_id", userID), zap.Error(err))
	}
	if s.userID == userID {
		s.sessions = nil
		s.currentID = ""
	}
}

// =============================================================================
// CURRENT SESSION
// =============================================================================

// CurrentID returns the current session's ID, or "" when no session is
// current.
func (s *Store) CurrentID() string {
	return s.currentID
}

// CurrentSession returns the current session, if any.
func (s *Store) CurrentSession() (*model.Session, bool) {
	if s.currentID == "" {
		return nil, false
	}
	sess := s.find(s.currentID)
	if sess == nil {
		return nil, false
	}
	return sess.Clone(), true
}

// SetCurrent points the store at an existing session without loading it.
// Unknown IDs clear the pointer.
func (s *Store) SetCurrent(sessionID string) {
	if s.find(sessionID) == nil {
		s.currentID = ""
		return
	}
	s.currentID = sessionID
}

// ActiveUser returns the userID the store is currently scoped to.
func (s *Store) ActiveUser() string {
	return s.userID
}

// Reload re-reads the active user's sessions from the backing KV. Used
// when another finiq process may have written the entry. The current
// pointer survives if the session still exists.
func (s *Store) Reload() {
	if s.userID == "" {
		return
	}
	current := s.currentID
	s.sessions = s.load(s.userID)
	s.currentID = ""
	if current != "" && s.find(current) != nil {
		s.currentID = current
	}
}

// =============================================================================
// INTERNAL
// =============================================================================

// ensureUser scopes the store to userID, loading that user's sessions the
// first time. Switching users drops the previous user's in-memory state.
func (s *Store) ensureUser(userID string) {
	if s.userID == userID {
		return
	}
	s.userID = userID
	s.currentID = ""
	s.sessions = s.load(userID)
}

func (s *Store) find(sessionID string) *model.Session {
	for _, sess := range s.sessions {
		if sess.ID == sessionID {
			return sess
		}
	}
	return nil
}

// load reads and decodes one user's entry. Every failure path degrades to
// "no data": the chat UI must keep working even if the history file is
// unreadable or corrupt.
func (s *Store) load(userID string) []*model.Session {
	value, ok, err := s.kv.Get(KeyPrefix + userID)
	if err != nil {
		s.logger.Error("failed to read history", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var sessions []*model.Session
	if err := json.Unmarshal([]byte(value), &sessions); err != nil {
		s.logger.Warn("corrupt history entry, starting empty",
			zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return sessions
}

// persist writes the active user's full session list as one value.
// Whole-value replace keeps the entry internally consistent even when
// another process writes concurrently (last writer wins).
func (s *Store) persist() {
	if s.userID == "" {
		return
	}

	sessions := s.sessions
	if sessions == nil {
		sessions = []*model.Session{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		s.logger.Error("failed to encode history", zap.Error(err))
		return
	}
	if err := s.kv.Set(KeyPrefix+s.userID, string(data)); err != nil {
		s.logger.Error("failed to write history",
			zap.String("user_id", s.userID), zap.Error(err))
	}
}
