// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the finiq TUI.
package chat

import (
	"time"

	"github.com/finiq-ai/finiq-tui/internal/model"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// MentorReplyMsg carries a completed mentor response.
type MentorReplyMsg struct {
	SessionID string
	Reply     model.Message
	Elapsed   time.Duration
}

// MentorErrorMsg carries a failed mentor request.
type MentorErrorMsg struct {
	SessionID string
	Err       error
	Canceled  bool
}
