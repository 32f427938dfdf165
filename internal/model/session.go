// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finiq-ai/finiq-tui/internal/util"
)

// TitleMaxRunes is the maximum length of a title auto-derived from the
// first user message. Longer messages are cut at this length and marked
// with an ellipsis.
const TitleMaxRunes = 50

// placeholderPrefix marks an auto-generated, date-based title. Once a
// session gets a content-derived title, the derivation never runs again.
const placeholderPrefix = "Chat "

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds one titled conversation thread with its ordered messages.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession creates an empty session. If title is empty, a date-based
// placeholder title is assigned; it is replaced by a content-derived title
// on the first update that contains a user message.
func NewSession(title string) *Session {
	now := time.Now()
	if title == "" {
		title = placeholderPrefix + now.Format("2006-01-02")
	}
	return &Session{
		ID:        "session_" + uuid.NewString(),
		Title:     title,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// HasPlaceholderTitle reports whether the session still carries an
// auto-generated date title.
func (s *Session) HasPlaceholderTitle() bool {
	return strings.HasPrefix(s.Title, placeholderPrefix)
}

// DeriveTitle recomputes the title from the first user message, but only
// while the session still has a placeholder title. The derived title is the
// first TitleMaxRunes characters of the message, with "..." appended when
// the message is longer.
func (s *Session) DeriveTitle() {
	if !s.HasPlaceholderTitle() {
		return
	}
	first, ok := s.FirstUserMessage()
	if !ok {
		return
	}
	runes := []rune(first.Content)
	if len(runes) > TitleMaxRunes {
		s.Title = string(runes[:TitleMaxRunes]) + "..."
	} else {
		s.Title = first.Content
	}
}

// =============================================================================
// MESSAGE ACCESS
// =============================================================================

// FirstUserMessage returns the earliest user message, if any.
func (s *Session) FirstUserMessage() (Message, bool) {
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			return m, true
		}
	}
	return Message{}, false
}

// LastUserMessage returns the most recent user message, if any.
func (s *Session) LastUserMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// MessageCount returns the number of messages in the session.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// Preview returns a one-line preview of the last user message for list
// displays, or a fixed placeholder for sessions without user messages.
func (s *Session) Preview(maxRunes int) string {
	last, ok := s.LastUserMessage()
	if !ok {
		return "No messages yet"
	}
	return util.TruncateRunes(util.CollapseWhitespace(last.Content), maxRunes)
}

// Matches reports whether the query matches the session title or any
// message content, case-insensitively. Empty queries match everything.
func (s *Session) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(s.Title), q) {
		return true
	}
	for _, m := range s.Messages {
		if strings.Contains(strings.ToLower(m.Content), q) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the session. The store hands out clones so
// callers cannot mutate persisted state behind its back.
func (s *Session) Clone() *Session {
	c := *s
	c.Messages = make([]Message, len(s.Messages))
	copy(c.Messages, s.Messages)
	return &c
}
