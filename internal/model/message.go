// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/finiq-ai/finiq-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"

	// RoleSystem marks transient notices shown in the transcript but
	// never sent to the mentor service or persisted to history.
	RoleSystem Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Mentor"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// MessageType records the provenance of a message's content.
type MessageType string

const (
	// TypeText marks content that was typed.
	TypeText MessageType = "text"
	// TypeVoice marks content that came in through speech transcription.
	TypeVoice MessageType = "voice"
)

// Message represents a single message in a chat session.
type Message struct {
	ID        string      `json:"id"`
	Role      Role        `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string, typ MessageType) Message {
	return Message{
		ID:        generateMessageID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Type:      typ,
	}
}

// NewUserMessage creates a new typed user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content, TypeText)
}

// NewVoiceMessage creates a user message that originated from speech input.
func NewVoiceMessage(content string) Message {
	return NewMessage(RoleUser, content, TypeVoice)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content, TypeText)
}

// Preview returns a truncated single-line preview of the message content.
func (m Message) Preview(maxRunes int) string {
	return util.TruncateRunes(util.CollapseWhitespace(m.Content), maxRunes)
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// generateMessageID creates a unique message ID.
// UUIDs avoid collisions within a session even for messages created in the
// same timestamp tick.
func generateMessageID() string {
	return "msg_" + uuid.NewString()
}
