// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the finiq TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/finiq-ai/finiq-tui/internal/commands"
	"github.com/finiq-ai/finiq-tui/internal/config"
	"github.com/finiq-ai/finiq-tui/internal/history"
	"github.com/finiq-ai/finiq-tui/internal/index"
	"github.com/finiq-ai/finiq-tui/internal/jargon"
	"github.com/finiq-ai/finiq-tui/internal/mentor"
	"github.com/finiq-ai/finiq-tui/internal/model"
	"github.com/finiq-ai/finiq-tui/internal/session"
	"github.com/finiq-ai/finiq-tui/internal/ui/components"
	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady    State = iota // Ready for input
	StateThinking              // Waiting on the mentor service
	StateError                 // Showing an error
)

// Overlay identifies which panel sits on top of the transcript.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHistory
	OverlayGlossary
	OverlayHelp
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Deps are the application services the chat view depends on. Any
// field may be nil; the view degrades to the matching feature missing.
type Deps struct {
	Config   *config.Config
	Store    *history.Store
	Client   *mentor.Client
	Glossary *jargon.Glossary
	Session  *session.Manager
	Index    *index.HistoryIndex
	UserID   string
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state   State
	overlay Overlay

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Services
	cfg      *config.Config
	store    *history.Store
	client   *mentor.Client
	glossary *jargon.Glossary
	manager  *session.Manager
	userID   string

	// Jargon annotation
	highlighter *jargon.Highlighter

	// Transcript. System notices live here too but are stripped before
	// persistence and before mentor requests.
	messages []model.Message

	// Slash command system
	cmdCtx          *commands.Context
	registry        *commands.Registry
	parser          *commands.Parser
	completer       *commands.Completer
	completionState *commands.CompletionState

	// UI components
	viewport        viewport.Model
	input           textinput.Model
	spinner         components.Spinner
	header          *components.Header
	statusBar       *components.StatusBar
	historyPanel    *components.HistoryPanel
	glossaryPanel   *components.GlossaryPanel
	completionPopup *components.CompletionPopup

	// Key bindings
	keyMap KeyMap

	// In-flight request cancellation. Pointer so Bubble Tea model
	// copies never copy the mutex.
	cancelMgr *cancelManager

	// Error state
	lastError *components.ErrorBox
}

// New creates a chat model wired to the given services.
func New(theme *styles.Theme, deps Deps) Model {
	if theme == nil {
		theme = styles.NewTheme()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about money, or /help for commands..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	registry := commands.NewRegistry()
	parser := commands.NewParser(registry)
	completer := commands.NewCompleter(registry)

	cmdCtx := commands.NewContext(deps.Config, deps.Store, deps.Client, deps.Session)
	cmdCtx.WithIndex(deps.Index).WithGlossary(deps.Glossary)

	m := Model{
		state:           StateReady,
		theme:           theme,
		width:           80,
		height:          24,
		cfg:             deps.Config,
		store:           deps.Store,
		client:          deps.Client,
		glossary:        deps.Glossary,
		manager:         deps.Session,
		userID:          deps.UserID,
		highlighter:     jargon.NewHighlighter(jargon.Terms()),
		cmdCtx:          cmdCtx,
		registry:        registry,
		parser:          parser,
		completer:       completer,
		completionState: commands.NewCompletionState(),
		viewport:        vp,
		input:           ti,
		spinner:         components.NewSpinner(theme),
		header:          components.NewHeader(theme),
		statusBar:       components.NewStatusBar(theme),
		historyPanel:    components.NewHistoryPanel(theme),
		glossaryPanel:   components.NewGlossaryPanel(deps.Glossary, theme),
		completionPopup: components.NewCompletionPopup(theme),
		keyMap:          DefaultKeyMap(),
		cancelMgr:       newCancelManager(),
	}

	m.wireCompleter()
	m.configureHeader()

	// Resume where the user left off.
	if deps.Store != nil {
		if sess, ok := deps.Store.CurrentSession(); ok {
			m.messages = append(m.messages, sess.Messages...)
		}
	}

	return m
}

// wireCompleter hooks the dynamic completion sources up to the live
// services.
func (m *Model) wireCompleter() {
	store := m.store
	if store != nil {
		m.completer.SessionsFn = func() []commands.SessionInfo {
			var infos []commands.SessionInfo
			for _, s := range store.Sessions() {
				infos = append(infos, commands.SessionInfo{ID: s.ID, Title: s.Title})
			}
			return infos
		}
	}

	glossary := m.glossary
	if glossary != nil {
		m.completer.TermsFn = func() []string {
			var names []string
			for _, t := range glossary.Terms() {
				names = append(names, t.Term)
			}
			return names
		}
	}

	m.completer.ConfigFn = config.GetAllKeys
}

func (m *Model) configureHeader() {
	if m.client != nil {
		m.header.SetModel(m.client.GetModel())
	}
	if m.userID != "" {
		m.header.SetProfile(m.userID)
	}
	if m.store != nil {
		if sess, ok := m.store.CurrentSession(); ok {
			m.header.SetSessionTitle(sess.Title)
		}
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.manager != nil {
		cmds = append(cmds, session.TickCmd())
	}
	return tea.Batch(cmds...)
}

// SetSize resizes the view and all components.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.completionPopup.SetWidth(minInt(width-4, 60))

	panelWidth := width - 10
	if panelWidth > 76 {
		panelWidth = 76
	}
	m.historyPanel.SetSize(panelWidth, height-6)
	m.glossaryPanel.SetSize(panelWidth, height-6)

	headerHeight := 4
	footerHeight := 4
	m.viewport.Width = width
	m.viewport.Height = height - headerHeight - footerHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}

	m.renderTranscript()
}

// Messages returns a copy of the visible transcript.
func (m Model) Messages() []model.Message {
	out := make([]model.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// State returns the current view state.
func (m Model) State() State {
	return m.state
}

// =============================================================================
// TRANSCRIPT HELPERS
// =============================================================================

// appendMessage adds a message to the transcript and scrolls to it.
func (m *Model) appendMessage(msg model.Message) {
	m.messages = append(m.messages, msg)
	m.renderTranscript()
	m.viewport.GotoBottom()
}

// notice adds a transient system line to the transcript.
func (m *Model) notice(content string) {
	m.appendMessage(model.NewMessage(model.RoleSystem, content, model.TypeText))
}

// persistable strips system notices so they never reach disk or the
// mentor service.
func (m *Model) persistable() []model.Message {
	var out []model.Message
	for _, msg := range m.messages {
		if msg.Role == model.RoleSystem {
			continue
		}
		out = append(out, msg)
	}
	return out
}

// persist writes the current transcript to the session store, creating
// a session on first use.
func (m *Model) persist() {
	if m.store == nil {
		return
	}
	if m.store.CurrentID() == "" {
		m.store.CreateSession(m.userID, "")
	}
	m.store.UpdateSession(m.store.CurrentID(), m.persistable())
	if sess, ok := m.store.CurrentSession(); ok {
		m.header.SetSessionTitle(sess.Title)
	}
}

// renderTranscript rebuilds the viewport content from the transcript.
func (m *Model) renderTranscript() {
	if len(m.messages) == 0 {
		m.viewport.SetContent("")
		return
	}

	showDefs := true
	if m.cfg != nil {
		showDefs = m.cfg.UI.ShowDefinitions
	}

	var blocks []string
	for _, msg := range m.messages {
		bubble := components.NewMessageBubble(msg, m.theme, m.highlighter)
		bubble.SetWidth(m.viewport.Width)
		bubble.ShowDefinitions = showDefs
		blocks = append(blocks, bubble.View())
	}

	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
	m.statusBar.MessageCount = len(m.persistable())
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
