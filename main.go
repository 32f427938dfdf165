// finiq TUI - a terminal chat client for the FinIQ.ai financial mentor.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/finiq-ai/finiq-tui/internal/cli"
	"github.com/finiq-ai/finiq-tui/internal/commands"
	"github.com/finiq-ai/finiq-tui/internal/config"
	"github.com/finiq-ai/finiq-tui/internal/history"
	"github.com/finiq-ai/finiq-tui/internal/index"
	"github.com/finiq-ai/finiq-tui/internal/jargon"
	"github.com/finiq-ai/finiq-tui/internal/logging"
	"github.com/finiq-ai/finiq-tui/internal/mentor"
	"github.com/finiq-ai/finiq-tui/internal/session"
	"github.com/finiq-ai/finiq-tui/internal/ui/chat"
	"github.com/finiq-ai/finiq-tui/internal/ui/components"
	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	// Parse CLI arguments
	cmd, args := cli.Parse()

	// Route to appropriate handler
	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdHistory:
		cli.HandleHistory(args)
	case cli.CmdSearch:
		cli.HandleSearch(args)
	case cli.CmdGlossary:
		cli.HandleGlossary(args)
	case cli.CmdProfile:
		cli.HandleProfile(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdIndex:
		cli.HandleIndex(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		cli.HandleHelp()
	}
}

// =============================================================================
// TUI STARTUP
// =============================================================================

func runTUI(args cli.Args) {
	cfg := config.Global()

	if _, err := logging.Init(logging.Options{
		Path:  cfg.Logging.Path,
		Debug: cfg.Logging.Debug || args.Verbose,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	defer logging.Sync()

	theme := styles.NewTheme()

	userID := args.Profile
	if userID == "" {
		userID = cli.DefaultProfile
	}

	// History store. A missing or broken history dir degrades to an
	// in-memory session that lasts for this run.
	var store *history.Store
	historyDir, err := cfg.HistoryDir()
	if err == nil {
		if kv, kvErr := history.NewFileKV(historyDir); kvErr == nil {
			store = history.NewStore(kv, logging.L())
		} else {
			err = kvErr
		}
	}
	if store == nil {
		fmt.Fprintf(os.Stderr, "Warning: history unavailable (%v); sessions will not be saved\n", err)
		store = history.NewStore(history.NewMemoryKV(), logging.L())
	}
	store.LoadAll(userID)

	// Full-text index. Optional; search degrades without it.
	var idx *index.HistoryIndex
	if cfg.History.IndexEnabled && historyDir != "" {
		idxCfg := index.DefaultConfig(historyDir)
		idxCfg.EnableWatch = cfg.History.WatchEnabled
		if opened, idxErr := index.New(idxCfg); idxErr == nil {
			idx = opened
			defer idx.Close()
		} else {
			logging.L().Warn("history index unavailable", zap.Error(idxErr))
		}
	}

	client := mentor.NewClientFromConfig(cfg.Mentor)
	client.WithLogger(logging.L())
	if args.Model != "" {
		client.SetModel(args.Model)
	}

	glossary := jargon.NewGlossary(jargon.Terms())

	sessCfg := session.DefaultConfig()
	sessCfg.Timeout = time.Duration(cfg.Session.IdleTimeoutSecs) * time.Second
	if cfg.Session.AutosaveSecs > 0 {
		sessCfg.AutoSaveInterval = time.Duration(cfg.Session.AutosaveSecs) * time.Second
	}
	manager := session.NewManager(sessCfg)

	chatModel := chat.New(theme, chat.Deps{
		Config:   cfg,
		Store:    store,
		Client:   client,
		Glossary: glossary,
		Session:  manager,
		Index:    idx,
		UserID:   userID,
	})

	m := newAppModel(theme, chatModel, cfg)
	m.welcome.SetVersion(Version)
	m.welcome.SetModelName(client.GetModel())
	m.welcome.SetProfile(userID)
	m.welcome.SetTermCount(glossary.Len())

	if !client.IsConfigured() {
		m.startupWarning = "No API key configured. Set FINIQ_API_KEY or run: finiq config set mentor.api_key <key>"
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running finiq: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// State represents the current application state.
type State int

const (
	StateWelcome State = iota // Welcome screen
	StateChat                 // Chat view
)

// appModel is the top-level Bubble Tea model: the welcome screen until
// the first keypress, then the chat view.
type appModel struct {
	state State

	theme *styles.Theme

	width  int
	height int

	chatModel chat.Model
	welcome   components.Welcome

	config *config.Config

	// Shown as a system notice when entering the chat view.
	startupWarning string
}

func newAppModel(theme *styles.Theme, chatModel chat.Model, cfg *config.Config) *appModel {
	return &appModel{
		state:     StateWelcome,
		theme:     theme,
		chatModel: chatModel,
		welcome:   components.NewWelcome(theme),
		config:    cfg,
	}
}

// Init initializes the application.
func (m *appModel) Init() tea.Cmd {
	return m.chatModel.Init()
}

// Update routes messages to the active view.
func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.welcome.SetSize(msg.Width, msg.Height)
		var cmd tea.Cmd
		m.chatModel, cmd = m.chatModel.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.state == StateWelcome {
			switch msg.String() {
			case "ctrl+c", "q", "esc":
				return m, tea.Quit
			default:
				m.state = StateChat
				if m.startupWarning != "" {
					warning := m.startupWarning
					m.startupWarning = ""
					var cmd tea.Cmd
					m.chatModel, cmd = m.chatModel.Update(msg)
					return m, tea.Batch(cmd, func() tea.Msg {
						return commands.SystemMessageMsg{Content: warning}
					})
				}
			}
		}
	}

	var cmd tea.Cmd
	m.chatModel, cmd = m.chatModel.Update(msg)
	return m, cmd
}

// View renders the active view.
func (m *appModel) View() string {
	if m.state == StateWelcome {
		return m.welcome.View()
	}
	return m.chatModel.View()
}
