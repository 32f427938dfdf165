// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/finiq-ai/finiq-tui/internal/jargon"
	"github.com/finiq-ai/finiq-tui/internal/model"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// These messages are sent by command handlers to update the application state.

// ShowHelpMsg triggers the help display.
type ShowHelpMsg struct {
	Topic string // Optional category for specific help
}

// NewSessionMsg triggers starting a fresh chat session.
type NewSessionMsg struct{}

// ListSessionsMsg triggers showing the session list.
type ListSessionsMsg struct {
	Sessions []*model.Session
	Error    error
}

// LoadSessionMsg triggers resuming a saved session.
type LoadSessionMsg struct {
	ID string
}

// SessionLoadedMsg indicates load completion.
type SessionLoadedMsg struct {
	Session *model.Session
	Error   error
}

// RenameSessionMsg sets an explicit title on the current session.
type RenameSessionMsg struct {
	Title string
}

// DeleteSessionMsg triggers deleting a saved session.
type DeleteSessionMsg struct {
	ID string
}

// ClearHistoryMsg triggers deleting all saved sessions.
type ClearHistoryMsg struct{}

// SearchSessionsMsg triggers a history search.
type SearchSessionsMsg struct {
	Query string
}

// SearchResultsMsg carries history search results.
type SearchResultsMsg struct {
	Query   string
	Matches []*model.Session
	Error   error
}

// ShowGlossaryMsg triggers the glossary panel.
type ShowGlossaryMsg struct{}

// ShowDefinitionMsg shows a single term definition.
type ShowDefinitionMsg struct {
	Term  *jargon.Term
	Query string // Original user input when no term matched
}

// ShowConfigMsg triggers showing or editing configuration.
type ShowConfigMsg struct {
	Key   string // Optional specific key
	Value string // For setting
}

// ConfigUpdateMsg indicates a config value was updated.
type ConfigUpdateMsg struct {
	Key      string
	Value    interface{}
	OldValue interface{}
	Error    error
}

// ShowStatusMsg triggers showing detailed status.
type ShowStatusMsg struct{}

// ErrorMsg indicates a command error.
type ErrorMsg struct {
	Title   string
	Message string
	Tip     string
}

// SystemMessageMsg adds a system notice to the chat transcript.
type SystemMessageMsg struct {
	Content string
}

// =============================================================================
// HANDLERS
// =============================================================================

// HandleHelp shows help information.
func HandleHelp(ctx *Context, args []string) tea.Cmd {
	topic := ""
	if len(args) > 0 {
		topic = args[0]
	}
	return func() tea.Msg {
		return ShowHelpMsg{Topic: topic}
	}
}

// HandleQuit exits the application.
func HandleQuit(ctx *Context, args []string) tea.Cmd {
	return tea.Quit
}

// HandleNew starts a new chat session.
func HandleNew(ctx *Context, args []string) tea.Cmd {
	if ctx != nil {
		ctx.RecordActivity()
	}
	return func() tea.Msg {
		return NewSessionMsg{}
	}
}

// HandleHistory lists saved sessions, most recent first.
func HandleHistory(ctx *Context, args []string) tea.Cmd {
	if ctx == nil || ctx.Store == nil {
		return func() tea.Msg {
			return ListSessionsMsg{}
		}
	}
	store := ctx.Store
	return func() tea.Msg {
		return ListSessionsMsg{Sessions: store.Sessions()}
	}
}

// HandleLoad resumes a saved session. Without an argument it falls back to
// the session list.
func HandleLoad(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return HandleHistory(ctx, args)
	}

	sessionID := args[0]
	if ctx == nil || ctx.Store == nil {
		return func() tea.Msg {
			return LoadSessionMsg{ID: sessionID}
		}
	}

	store := ctx.Store
	return func() tea.Msg {
		sess, ok := store.LoadSession(sessionID)
		if !ok {
			return SessionLoadedMsg{Error: fmt.Errorf("session not found: %s", sessionID)}
		}
		return SessionLoadedMsg{Session: sess}
	}
}

// HandleSearch searches past conversations.
func HandleSearch(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Search",
				Message: "no query given",
				Tip:     "usage: /search <query>",
			}
		}
	}

	query := strings.Join(args, " ")
	if ctx == nil || ctx.Store == nil {
		return func() tea.Msg {
			return SearchSessionsMsg{Query: query}
		}
	}

	store := ctx.Store
	return func() tea.Msg {
		return SearchResultsMsg{Query: query, Matches: store.Search(query)}
	}
}

// HandleRename sets an explicit title on the current session.
func HandleRename(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Rename",
				Message: "no title given",
				Tip:     "usage: /rename <title>",
			}
		}
	}
	title := strings.Join(args, " ")
	return func() tea.Msg {
		return RenameSessionMsg{Title: title}
	}
}

// HandleDelete deletes a saved session.
func HandleDelete(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Delete",
				Message: "no session given",
				Tip:     "usage: /delete <session_id>",
			}
		}
	}
	return func() tea.Msg {
		return DeleteSessionMsg{ID: args[0]}
	}
}

// HandleClear deletes all saved sessions. The chat model confirms with the
// user before acting on the message.
func HandleClear(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ClearHistoryMsg{}
	}
}

// HandleGlossary shows the glossary panel.
func HandleGlossary(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ShowGlossaryMsg{}
	}
}

// HandleDefine defines a financial term.
func HandleDefine(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Define",
				Message: "no term given",
				Tip:     "usage: /define <term>",
			}
		}
	}

	// Multi-word terms like "expense ratio" arrive as separate args.
	query := strings.Join(args, " ")
	if ctx == nil || ctx.Glossary == nil {
		return func() tea.Msg {
			return ShowDefinitionMsg{Query: query}
		}
	}

	glossary := ctx.Glossary
	return func() tea.Msg {
		if term, ok := glossary.Lookup(query); ok {
			return ShowDefinitionMsg{Term: &term, Query: query}
		}
		return ShowDefinitionMsg{Query: query}
	}
}

// HandleConfig shows or edits configuration.
func HandleConfig(ctx *Context, args []string) tea.Cmd {
	msg := ShowConfigMsg{}
	if len(args) > 0 {
		msg.Key = args[0]
	}
	if len(args) > 1 {
		msg.Value = strings.Join(args[1:], " ")
	}
	return func() tea.Msg {
		return msg
	}
}

// HandleStatus shows detailed status information.
func HandleStatus(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ShowStatusMsg{}
	}
}
