// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the finiq TUI.
package chat

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/finiq-ai/finiq-tui/internal/mentor"
	"github.com/finiq-ai/finiq-tui/internal/model"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// defaultRequestTimeout applies when no config is attached.
const defaultRequestTimeout = 60 * time.Second

// sendToMentor creates a command that sends the conversation to the
// mentor service and reports back. The request's cancel function is
// registered with the cancel manager so Esc and Ctrl+C can abort it.
func sendToMentor(client *mentor.Client, mgr *cancelManager, timeout time.Duration, sessionID string, msgs []model.Message) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return MentorErrorMsg{
				SessionID: sessionID,
				Err:       errors.New("mentor client not configured"),
			}
		}

		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if mgr != nil {
			mgr.Set(cancel)
			defer mgr.Clear()
		}

		start := time.Now()
		reply, err := client.Reply(ctx, msgs)
		if err != nil {
			return MentorErrorMsg{
				SessionID: sessionID,
				Err:       err,
				Canceled:  errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled),
			}
		}

		return MentorReplyMsg{
			SessionID: sessionID,
			Reply:     reply,
			Elapsed:   time.Since(start),
		}
	}
}
