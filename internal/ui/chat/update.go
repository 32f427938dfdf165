// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the finiq TUI.
package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/finiq-ai/finiq-tui/internal/commands"
	"github.com/finiq-ai/finiq-tui/internal/config"
	"github.com/finiq-ai/finiq-tui/internal/model"
	"github.com/finiq-ai/finiq-tui/internal/session"
	"github.com/finiq-ai/finiq-tui/internal/ui/components"
	"github.com/finiq-ai/finiq-tui/internal/util"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case session.TickMsg:
		if m.manager == nil {
			return m, nil
		}
		return m, m.manager.HandleTick()

	case session.IdleWarningMsg:
		m.notice(fmt.Sprintf("Idle for a while. Closing in %s without activity.", session.FormatDuration(msg.Remaining)))
		return m, nil

	case session.IdleTimeoutMsg:
		m.persist()
		return m, tea.Quit

	case session.AutoSaveMsg:
		m.persist()
		if m.manager != nil {
			m.manager.MarkClean()
		}
		m.statusBar.Unsaved = false
		return m, nil

	case MentorReplyMsg:
		return m.handleMentorReply(msg)

	case MentorErrorMsg:
		return m.handleMentorError(msg)
	}

	if cmd, handled := m.handleCommandMsg(msg); handled {
		return m, cmd
	}

	// Spinner animation frames.
	if cmd := m.spinner.Update(msg); cmd != nil {
		return m, cmd
	}

	return m, nil
}

// =============================================================================
// MENTOR RESPONSES
// =============================================================================

func (m Model) handleMentorReply(msg MentorReplyMsg) (Model, tea.Cmd) {
	m.state = StateReady
	m.spinner.Stop()
	m.statusBar.Status = components.StatusReady

	m.appendMessage(msg.Reply)
	m.persist()
	if m.manager != nil {
		m.manager.MarkClean()
	}
	m.statusBar.Unsaved = false

	if m.highlighter != nil {
		m.statusBar.TermCount = len(m.highlighter.TermsIn(msg.Reply.Content))
	}

	return m, nil
}

func (m Model) handleMentorError(msg MentorErrorMsg) (Model, tea.Cmd) {
	m.state = StateReady
	m.spinner.Stop()

	if msg.Canceled {
		m.statusBar.Status = components.StatusReady
		m.notice("Request canceled.")
		return m, nil
	}

	m.statusBar.Status = components.StatusError
	m.statusBar.Connected = false
	m.notice("Mentor request failed: " + msg.Err.Error())
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Overlays swallow keys first.
	if m.overlay != OverlayNone {
		return m.handleOverlayKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		// First Ctrl+C cancels an in-flight request, second quits.
		if m.cancelMgr.Cancel() {
			return m, nil
		}
		m.persist()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Escape):
		if m.completionState.Visible {
			m.completionState.Clear()
			return m, nil
		}
		m.cancelMgr.Cancel()
		return m, nil

	case key.Matches(msg, m.keyMap.Send):
		if m.completionState.Visible {
			m.acceptCompletion()
			return m, nil
		}
		return m.submit()

	case key.Matches(msg, m.keyMap.Complete):
		return m.cycleCompletion()

	case key.Matches(msg, m.keyMap.NewSession):
		return m.startNewSession()

	case key.Matches(msg, m.keyMap.History):
		return m.openHistory()

	case key.Matches(msg, m.keyMap.Glossary):
		m.overlay = OverlayGlossary
		m.glossaryPanel.SetFilter("")
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		if m.completionState.Visible {
			m.completionState.Prev()
			return m, nil
		}
	case key.Matches(msg, m.keyMap.Down):
		if m.completionState.Visible {
			m.completionState.Next()
			return m, nil
		}
	}

	if m.manager != nil {
		m.manager.RecordActivity()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshCompletions()
	return m, cmd
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.overlay {
	case OverlayHistory:
		switch {
		case key.Matches(msg, m.keyMap.Escape):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keyMap.Up):
			m.historyPanel.MoveUp()
		case key.Matches(msg, m.keyMap.Down):
			m.historyPanel.MoveDown()
		case key.Matches(msg, m.keyMap.Delete):
			if sess := m.historyPanel.SelectedSession(); sess != nil && m.store != nil {
				m.store.DeleteSession(sess.ID)
				m.historyPanel.SetSessions(m.store.Sessions())
			}
		case key.Matches(msg, m.keyMap.Send):
			if sess := m.historyPanel.SelectedSession(); sess != nil {
				m.overlay = OverlayNone
				return m.loadSession(sess.ID)
			}
		}
		return m, nil

	case OverlayGlossary:
		switch {
		case key.Matches(msg, m.keyMap.Escape):
			if m.glossaryPanel.Filter != "" {
				m.glossaryPanel.SetFilter("")
			} else {
				m.overlay = OverlayNone
			}
		case key.Matches(msg, m.keyMap.Up):
			m.glossaryPanel.MoveUp()
		case key.Matches(msg, m.keyMap.Down):
			m.glossaryPanel.MoveDown()
		case msg.Type == tea.KeyBackspace:
			if f := m.glossaryPanel.Filter; f != "" {
				runes := []rune(f)
				m.glossaryPanel.SetFilter(string(runes[:len(runes)-1]))
			}
		case msg.Type == tea.KeyRunes:
			m.glossaryPanel.SetFilter(m.glossaryPanel.Filter + string(msg.Runes))
		}
		return m, nil

	case OverlayHelp:
		if key.Matches(msg, m.keyMap.Escape) || key.Matches(msg, m.keyMap.Send) {
			m.overlay = OverlayNone
		}
		return m, nil
	}

	m.overlay = OverlayNone
	return m, nil
}

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

// submit processes the input line: slash commands go to the command
// registry, everything else goes to the mentor.
func (m Model) submit() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.completionState.Clear()
	if m.manager != nil {
		m.manager.RecordActivity()
	}

	if commands.IsCommand(text) {
		return m.runCommand(text)
	}

	return m.sendMessage(text)
}

func (m Model) runCommand(text string) (Model, tea.Cmd) {
	result := m.parser.Parse(text)
	if result.Command == nil {
		m.notice("Unknown command " + result.CommandName + ". Try /help.")
		return m, nil
	}

	if err := commands.ValidateArgs(result.Command, result.Args); err != nil {
		m.notice(err.Error() + " Usage: " + result.Command.Usage)
		return m, nil
	}

	return m, result.Command.Handler(m.cmdCtx, result.Args)
}

func (m Model) sendMessage(text string) (Model, tea.Cmd) {
	if m.state == StateThinking {
		m.notice("Still waiting on the previous answer. Esc cancels it.")
		return m, nil
	}

	userMsg := model.NewUserMessage(text)
	m.appendMessage(userMsg)

	// Persist before the request so a crash loses at most the reply.
	m.persist()
	if m.manager != nil {
		m.manager.MarkDirty()
	}
	m.statusBar.Unsaved = true

	m.state = StateThinking
	m.statusBar.Status = components.StatusThinking

	timeout := defaultRequestTimeout
	if m.cfg != nil {
		timeout = time.Duration(m.cfg.Mentor.TimeoutSecs) * time.Second
	}

	sessionID := ""
	if m.store != nil {
		sessionID = m.store.CurrentID()
	}

	return m, tea.Batch(
		m.spinner.Start(),
		sendToMentor(m.client, m.cancelMgr, timeout, sessionID, m.persistable()),
	)
}

// =============================================================================
// COMPLETION
// =============================================================================

// refreshCompletions recomputes the popup for the current input.
func (m *Model) refreshCompletions() {
	value := m.input.Value()
	if !strings.HasPrefix(value, "/") {
		m.completionState.Clear()
		return
	}
	comps := m.completer.Complete(value, len(value))
	m.completionState.Update(value, comps)
}

func (m Model) cycleCompletion() (Model, tea.Cmd) {
	if !strings.HasPrefix(m.input.Value(), "/") {
		return m, nil
	}
	if m.completionState.Visible {
		m.completionState.Next()
	} else {
		m.refreshCompletions()
	}
	return m, nil
}

// acceptCompletion replaces the input with the selected candidate.
func (m *Model) acceptCompletion() {
	value := m.completionState.Accept()
	if value == "" {
		return
	}
	m.input.SetValue(value + " ")
	m.input.CursorEnd()
	m.completionState.Clear()
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

func (m Model) startNewSession() (Model, tea.Cmd) {
	if m.store != nil {
		m.store.CreateSession(m.userID, "")
	}
	m.messages = nil
	m.renderTranscript()
	m.configureHeader()
	m.notice("Started a new session.")
	return m, nil
}

func (m Model) openHistory() (Model, tea.Cmd) {
	if m.store == nil {
		m.notice("History is not available.")
		return m, nil
	}
	m.historyPanel.SetSessions(m.store.Sessions())
	m.historyPanel.CurrentID = m.store.CurrentID()
	m.overlay = OverlayHistory
	return m, nil
}

func (m Model) loadSession(id string) (Model, tea.Cmd) {
	if m.store == nil {
		return m, nil
	}
	sess, ok := m.store.LoadSession(id)
	if !ok {
		m.notice("Session not found.")
		return m, nil
	}
	m.messages = append([]model.Message(nil), sess.Messages...)
	m.renderTranscript()
	m.viewport.GotoBottom()
	m.configureHeader()
	m.notice("Resumed \"" + util.TruncateRunes(sess.Title, 40) + "\".")
	return m, nil
}

// =============================================================================
// COMMAND HANDLER MESSAGES
// =============================================================================

// handleCommandMsg reacts to the messages emitted by slash command
// handlers. Returns handled=false for messages this view ignores.
func (m *Model) handleCommandMsg(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case commands.ShowHelpMsg:
		m.overlay = OverlayHelp
		return nil, true

	case commands.NewSessionMsg:
		if m.store != nil {
			m.store.CreateSession(m.userID, "")
		}
		m.messages = nil
		m.renderTranscript()
		m.configureHeader()
		m.notice("Started a new session.")
		return nil, true

	case commands.ListSessionsMsg:
		if msg.Error != nil {
			m.notice("Could not list sessions: " + msg.Error.Error())
			return nil, true
		}
		m.historyPanel.SetSessions(msg.Sessions)
		if m.store != nil {
			m.historyPanel.CurrentID = m.store.CurrentID()
		}
		m.overlay = OverlayHistory
		return nil, true

	case commands.SessionLoadedMsg:
		if msg.Error != nil {
			m.notice("Could not load session: " + msg.Error.Error())
			return nil, true
		}
		if msg.Session != nil {
			m.messages = append([]model.Message(nil), msg.Session.Messages...)
			m.renderTranscript()
			m.viewport.GotoBottom()
			m.configureHeader()
			m.notice("Resumed \"" + util.TruncateRunes(msg.Session.Title, 40) + "\".")
		}
		return nil, true

	case commands.RenameSessionMsg:
		if m.store != nil {
			m.store.RenameSession(m.store.CurrentID(), msg.Title)
			m.configureHeader()
			m.notice("Session renamed.")
		}
		return nil, true

	case commands.DeleteSessionMsg:
		if m.store != nil {
			current := m.store.CurrentID() == msg.ID
			m.store.DeleteSession(msg.ID)
			if current {
				m.messages = nil
				m.renderTranscript()
				m.configureHeader()
			}
			m.notice("Session deleted.")
		}
		return nil, true

	case commands.ClearHistoryMsg:
		if m.store != nil {
			m.store.ClearAll(m.userID)
			m.messages = nil
			m.renderTranscript()
			m.configureHeader()
			m.notice("All sessions cleared.")
		}
		return nil, true

	case commands.SearchResultsMsg:
		if msg.Error != nil {
			m.notice("Search failed: " + msg.Error.Error())
			return nil, true
		}
		if len(msg.Matches) == 0 {
			m.notice("No sessions match \"" + msg.Query + "\".")
			return nil, true
		}
		m.historyPanel.SetSessions(msg.Matches)
		if m.store != nil {
			m.historyPanel.CurrentID = m.store.CurrentID()
		}
		m.overlay = OverlayHistory
		return nil, true

	case commands.ShowGlossaryMsg:
		m.glossaryPanel.SetFilter("")
		m.overlay = OverlayGlossary
		return nil, true

	case commands.ShowDefinitionMsg:
		if msg.Term == nil {
			m.notice("No glossary entry for \"" + msg.Query + "\".")
			return nil, true
		}
		m.notice(msg.Term.Term + ": " + msg.Term.Definition)
		return nil, true

	case commands.ShowConfigMsg:
		return m.applyConfig(msg), true

	case commands.ConfigUpdateMsg:
		if msg.Error != nil {
			m.notice("Config update failed: " + msg.Error.Error())
			return nil, true
		}
		m.notice(fmt.Sprintf("Set %s = %v", msg.Key, msg.Value))
		return nil, true

	case commands.ShowStatusMsg:
		m.notice(m.statusSummary())
		return nil, true

	case commands.ErrorMsg:
		box := components.NewErrorBox(msg.Title, msg.Message, m.theme)
		if msg.Tip != "" {
			box.SetTip(msg.Tip)
		}
		m.lastError = box
		text := msg.Title + ": " + msg.Message
		if msg.Tip != "" {
			text += " (" + msg.Tip + ")"
		}
		m.notice(text)
		return nil, true

	case commands.SystemMessageMsg:
		m.notice(msg.Content)
		return nil, true
	}

	return nil, false
}

// applyConfig services /config: no key lists the keys, a key shows its
// value, key plus value sets and saves.
func (m *Model) applyConfig(msg commands.ShowConfigMsg) tea.Cmd {
	if m.cfg == nil {
		m.notice("Configuration is not available.")
		return nil
	}

	if msg.Key == "" {
		m.notice("Config keys: " + strings.Join(config.GetAllKeys(), ", "))
		return nil
	}

	if msg.Value == "" {
		val, err := m.cfg.Get(msg.Key)
		if err != nil {
			m.notice("Config: " + err.Error())
			return nil
		}
		m.notice(fmt.Sprintf("%s = %v", msg.Key, val))
		return nil
	}

	old, _ := m.cfg.Get(msg.Key)
	if err := m.cfg.Set(msg.Key, msg.Value); err != nil {
		m.notice("Config update failed: " + err.Error())
		return nil
	}
	if err := m.cfg.Validate(); err != nil {
		_ = m.cfg.Set(msg.Key, old)
		m.notice("Config update rejected: " + err.Error())
		return nil
	}
	if err := config.Save(m.cfg); err != nil {
		m.notice("Config saved in memory only: " + err.Error())
	} else {
		m.notice(fmt.Sprintf("Set %s = %s", msg.Key, msg.Value))
	}
	return nil
}

// statusSummary builds the one-line status notice for /status.
func (m *Model) statusSummary() string {
	var parts []string

	if m.client != nil && m.client.IsConfigured() {
		parts = append(parts, "mentor: "+m.client.GetModel())
	} else {
		parts = append(parts, "mentor: not configured")
	}

	if m.store != nil {
		parts = append(parts, fmt.Sprintf("sessions: %d", len(m.store.Sessions())))
	}

	if m.glossary != nil {
		parts = append(parts, fmt.Sprintf("glossary: %d terms", m.glossary.Len()))
	}

	if m.manager != nil {
		parts = append(parts, "up "+session.FormatDuration(m.manager.Duration()))
	}

	return strings.Join(parts, " | ")
}
