// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL for finiq CLI.
//
// Handles the "finiq chat" command: a readline-style loop against the
// mentor backend with persistent per-profile chat history, slash commands
// and financial term definitions after each answer.
//
// Command: chat
// Aliases: c
//
// Examples:
//   finiq chat
//   finiq chat --profile alice
//   finiq chat --model finiq-mentor-pro --quiet
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/finiq-ai/finiq-tui/internal/config"
	"github.com/finiq-ai/finiq-tui/internal/history"
	"github.com/finiq-ai/finiq-tui/internal/jargon"
	"github.com/finiq-ai/finiq-tui/internal/mentor"
	"github.com/finiq-ai/finiq-tui/internal/model"
	"github.com/finiq-ai/finiq-tui/internal/profile"
	"github.com/finiq-ai/finiq-tui/internal/util"
)

// DefaultProfile is the userID used when no profile is selected.
const DefaultProfile = profile.GuestUserID

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// Supports arrow keys for history navigation.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		// Fallback to temp directory if config dir unavailable
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "input_history")

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}
	cli.LoadHistory()

	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
// Chat input can contain personal financial detail.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive chat session.
type ChatSession struct {
	Config      *config.Config
	Store       *history.Store
	Client      *mentor.Client
	Highlighter *jargon.Highlighter
	Glossary    *jargon.Glossary
	InputCLI    *ChatCLI

	UserID string
	Quiet  bool
	Plain  bool

	// CancelFunc cancels the in-flight mentor request, when one exists
	CancelFunc context.CancelFunc

	// Statistics for the exit summary
	StartTime     time.Time
	QuestionCount int
	TermsSeen     map[string]struct{}
}

// NewChatSession builds the session state for the REPL.
func NewChatSession(args Args) (*ChatSession, error) {
	cfg := config.Global()

	userID := args.Profile
	if userID == "" {
		userID = DefaultProfile
	}

	historyDir, err := cfg.HistoryDir()
	if err != nil {
		return nil, WrapError(err, "could not resolve history directory")
	}
	kv, err := history.NewFileKV(historyDir)
	if err != nil {
		return nil, WrapError(err, "could not open history directory")
	}

	store := history.NewStore(kv, nil)
	store.LoadAll(userID)

	client := mentor.NewClientFromConfig(cfg.Mentor)
	if args.Model != "" {
		client.SetModel(args.Model)
	}

	return &ChatSession{
		Config:      cfg,
		Store:       store,
		Client:      client,
		Highlighter: jargon.NewHighlighter(jargon.Terms()),
		Glossary:    jargon.NewGlossary(jargon.Terms()),
		InputCLI:    NewChatCLI(),
		UserID:      userID,
		Quiet:       args.Quiet,
		Plain:       args.Plain,
		StartTime:   time.Now(),
		TermsSeen:   make(map[string]struct{}),
	}, nil
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat handles the "chat" command and exits with an appropriate code.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		DisplayError(err, args.JSON)
		os.Exit(GetExitCode(err))
	}
}

// HandleChatCommand runs the interactive chat REPL.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	session, err := NewChatSession(args)
	if err != nil {
		return err
	}

	if !session.Client.IsConfigured() {
		return NewAuthError("", "no API key configured; set FINIQ_API_KEY or run: finiq config set mentor.api_key <key>")
	}

	if !session.Quiet {
		printWelcome(session)
	}

	// Ensure input history is saved on exit
	defer session.InputCLI.Close()

	// First Ctrl+C during a request cancels the request, not the REPL
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		for range sigChan {
			if session.CancelFunc != nil {
				session.CancelFunc()
				session.CancelFunc = nil
				fmt.Fprintln(os.Stderr, "\n"+WarningStyle.Render("[Cancelled]"))
			}
		}
	}()

	for {
		input, err := session.InputCLI.ReadInput(promptStyle.Render("finiq> "))
		if err != nil {
			// Ctrl+C or EOF (Ctrl+D) exits gracefully
			if err != liner.ErrPromptAborted {
				fmt.Println()
			}
			printExitSummary(session)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldContinue, err := handleSlashCommand(input, session)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			}
			if !shouldContinue {
				printExitSummary(session)
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(session)
			return nil
		}

		if err := processMessage(session, input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		}
	}
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

// processMessage sends a message to the mentor and displays the response.
// The conversation is persisted after the user message and again after the
// reply, so a crash mid-request loses at most the reply.
func processMessage(session *ChatSession, input string) error {
	current, ok := session.Store.CurrentSession()
	if !ok {
		id := session.Store.CreateSession(session.UserID, "")
		current, _ = session.Store.LoadSession(id)
	}

	messages := append(current.Messages, model.NewUserMessage(input))
	session.Store.UpdateSession(current.ID, messages)

	timeout := time.Duration(session.Config.Mentor.TimeoutSecs) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	session.CancelFunc = cancel
	defer func() {
		session.CancelFunc = nil
		cancel()
	}()

	if !session.Quiet {
		fmt.Fprintln(os.Stderr, MutedStyle.Render("thinking..."))
	}

	reply, err := session.Client.Reply(ctx, messages)
	if err != nil {
		return err
	}

	messages = append(messages, reply)
	session.Store.UpdateSession(current.ID, messages)
	session.QuestionCount++

	fmt.Println()
	displayResponse(reply.Content)

	if session.Config.UI.ShowDefinitions && !session.Plain {
		terms := session.Highlighter.TermsIn(reply.Content)
		for _, t := range terms {
			if _, seen := session.TermsSeen[t.Term]; seen {
				continue
			}
			session.TermsSeen[t.Term] = struct{}{}
			fmt.Printf("  %s %s\n", TermStyle.Render(t.Term+":"), WrapText(t.Definition, GetTerminalWidth()-4))
		}
		if len(terms) > 0 {
			fmt.Println()
		}
	}

	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand executes a REPL slash command.
// Returns (false, nil) when the REPL should exit.
func handleSlashCommand(cmd string, session *ChatSession) (bool, error) {
	parts := strings.Fields(cmd)
	name := strings.ToLower(parts[0])
	rest := strings.TrimSpace(strings.TrimPrefix(cmd, parts[0]))

	switch name {
	case "/exit", "/quit", "/q":
		return false, nil

	case "/help", "/h", "/?":
		printHelp()
		return true, nil

	case "/new", "/n":
		id := session.Store.CreateSession(session.UserID, "")
		fmt.Println(SuccessStyle.Render("Started new session ") + MutedStyle.Render(id))
		return true, nil

	case "/history", "/sessions", "/list":
		printHistory(session)
		return true, nil

	case "/load", "/l", "/resume":
		if rest == "" {
			printHistory(session)
			return true, nil
		}
		sess, ok := session.Store.LoadSession(rest)
		if !ok {
			return true, NewNotFoundError("session", rest)
		}
		fmt.Printf("Resumed %s (%d messages)\n", ValueStyle.Render(sess.Title), len(sess.Messages))
		return true, nil

	case "/rename":
		if rest == "" {
			return true, ErrMissingArgument("title", "/rename Retirement planning")
		}
		current, ok := session.Store.CurrentSession()
		if !ok {
			return true, fmt.Errorf("no current session to rename")
		}
		session.Store.RenameSession(current.ID, rest)
		fmt.Println(SuccessStyle.Render("Renamed to ") + ValueStyle.Render(rest))
		return true, nil

	case "/delete", "/del":
		if rest == "" {
			return true, ErrMissingArgument("session id", "/delete <id>")
		}
		session.Store.DeleteSession(rest)
		fmt.Println(SuccessStyle.Render("Deleted ") + MutedStyle.Render(rest))
		return true, nil

	case "/clear":
		session.Store.ClearAll(session.UserID)
		fmt.Println(WarningStyle.Render("All history cleared for " + session.UserID))
		return true, nil

	case "/search", "/find":
		if rest == "" {
			return true, ErrMissingArgument("query", "/search index funds")
		}
		matches := session.Store.Search(rest)
		if len(matches) == 0 {
			fmt.Println(MutedStyle.Render("No sessions match " + rest))
			return true, nil
		}
		for _, m := range matches {
			fmt.Printf("  %s  %s\n", MutedStyle.Render(m.ID[:8]), ValueStyle.Render(m.Title))
		}
		return true, nil

	case "/define", "/d":
		if rest == "" {
			return true, ErrMissingArgument("term", "/define liquidity")
		}
		term, ok := session.Glossary.Lookup(rest)
		if !ok {
			return true, NewNotFoundError("term", rest)
		}
		fmt.Printf("%s %s\n", TermStyle.Render(term.Term+":"), WrapText(term.Definition, GetTerminalWidth()-4))
		return true, nil

	case "/glossary", "/terms":
		for _, t := range jargon.Terms() {
			fmt.Printf("  %s  %s\n", TermStyle.Render(t.Term), MutedStyle.Render(string(t.Category)))
		}
		return true, nil

	case "/status":
		printStatus(session)
		return true, nil

	default:
		return true, fmt.Errorf("unknown command: %s (try /help)", name)
	}
}

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

func printWelcome(session *ChatSession) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("finiq chat"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Profile:"), ValueStyle.Render(session.UserID))
	fmt.Printf("%s %s\n", LabelStyle.Render("Model:"), ValueStyle.Render(session.Client.GetModel()))
	if count := len(session.Store.Sessions()); count > 0 {
		fmt.Printf("%s %d saved (use /load to resume)\n", LabelStyle.Render("Sessions:"), count)
	}
	fmt.Println(MutedStyle.Render("Type /help for commands, exit to quit."))
	fmt.Println()
}

func printHelp() {
	fmt.Println(SectionStyle.Render("Commands"))
	fmt.Println("  /new              Start a new session")
	fmt.Println("  /history          List saved sessions")
	fmt.Println("  /load <id>        Resume a session")
	fmt.Println("  /rename <title>   Rename the current session")
	fmt.Println("  /delete <id>      Delete a session")
	fmt.Println("  /clear            Delete all sessions for this profile")
	fmt.Println("  /search <query>   Search saved sessions")
	fmt.Println("  /define <term>    Define a financial term")
	fmt.Println("  /glossary         List all known terms")
	fmt.Println("  /status           Show session status")
	fmt.Println("  /exit             Quit (also: exit, quit, Ctrl+D)")
}

func printStatus(session *ChatSession) {
	fmt.Println(SectionStyle.Render("Status"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Profile:"), ValueStyle.Render(session.UserID))
	fmt.Printf("%s %s\n", LabelStyle.Render("Model:"), ValueStyle.Render(session.Client.GetModel()))
	fmt.Printf("%s %s\n", LabelStyle.Render("Uptime:"), time.Since(session.StartTime).Round(time.Second))
	fmt.Printf("%s %d\n", LabelStyle.Render("Questions:"), session.QuestionCount)
	if current, ok := session.Store.CurrentSession(); ok {
		fmt.Printf("%s %s (%d messages)\n", LabelStyle.Render("Session:"), ValueStyle.Render(current.Title), len(current.Messages))
	} else {
		fmt.Printf("%s %s\n", LabelStyle.Render("Session:"), MutedStyle.Render("none"))
	}
}

func printHistory(session *ChatSession) {
	sessions := session.Store.Sessions()
	if len(sessions) == 0 {
		fmt.Println(MutedStyle.Render("No saved sessions."))
		return
	}

	fmt.Println(SectionStyle.Render("Saved sessions"))
	for _, s := range sessions {
		marker := "  "
		if s.ID == session.Store.CurrentID() {
			marker = SuccessStyle.Render("* ")
		}
		fmt.Printf("%s%s  %s  %s\n",
			marker,
			MutedStyle.Render(s.ID[:8]),
			ValueStyle.Render(util.TruncateRunes(s.Title, 40)),
			MutedStyle.Render(util.RelativeTime(s.UpdatedAt)))
	}
}

func printExitSummary(session *ChatSession) {
	if session.Quiet {
		return
	}
	fmt.Println()
	fmt.Println(SectionStyle.Render("Session summary"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Duration:"), time.Since(session.StartTime).Round(time.Second))
	fmt.Printf("%s %d\n", LabelStyle.Render("Questions:"), session.QuestionCount)
	if len(session.TermsSeen) > 0 {
		fmt.Printf("%s %d\n", LabelStyle.Render("Terms learned:"), len(session.TermsSeen))
	}
	fmt.Println(MutedStyle.Render("History saved. Goodbye."))
}
