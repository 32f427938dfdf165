// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/finiq-ai/finiq-tui/internal/config"
	"github.com/finiq-ai/finiq-tui/internal/history"
	"github.com/finiq-ai/finiq-tui/internal/index"
	"github.com/finiq-ai/finiq-tui/internal/jargon"
	"github.com/finiq-ai/finiq-tui/internal/mentor"
	"github.com/finiq-ai/finiq-tui/internal/session"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/define <term>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler is the function that executes the command
	Handler func(ctx *Context, args []string) tea.Cmd

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines completion behavior
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString  ArgType = iota // Free-form string
	ArgTypeSession                // Session ID from saved sessions
	ArgTypeEnum                   // One of predefined values
	ArgTypeTerm                   // Glossary term
	ArgTypeConfig                 // Config key
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Usage:       "/help [category]",
		Args: []ArgDef{
			{
				Name:        "category",
				Type:        ArgTypeEnum,
				Values:      []string{"navigation", "conversation", "glossary", "settings"},
				Description: "Help category",
			},
		},
		Category: "Navigation",
		Handler:  HandleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit finiq",
		Category:    "Navigation",
		Handler:     HandleQuit,
	})

	// Conversation
	r.Register(&Command{
		Name:        "/new",
		Aliases:     []string{"/n"},
		Description: "Start a new chat session",
		Category:    "Conversation",
		Handler:     HandleNew,
	})

	r.Register(&Command{
		Name:        "/history",
		Aliases:     []string{"/sessions", "/list"},
		Description: "List saved chat sessions",
		Category:    "Conversation",
		Handler:     HandleHistory,
	})

	r.Register(&Command{
		Name:        "/load",
		Aliases:     []string{"/l", "/resume"},
		Description: "Resume a saved chat session",
		Usage:       "/load <session_id>",
		Args: []ArgDef{
			{Name: "session_id", Required: true, Type: ArgTypeSession, Description: "ID of the session to load"},
		},
		Category: "Conversation",
		Handler:  HandleLoad,
	})

	r.Register(&Command{
		Name:        "/search",
		Aliases:     []string{"/find"},
		Description: "Search past conversations",
		Usage:       "/search <query>",
		Args: []ArgDef{
			{Name: "query", Required: true, Type: ArgTypeString, Description: "Text to search for"},
		},
		Category: "Conversation",
		Handler:  HandleSearch,
	})

	r.Register(&Command{
		Name:        "/rename",
		Description: "Rename the current session",
		Usage:       "/rename <title>",
		Args: []ArgDef{
			{Name: "title", Required: true, Type: ArgTypeString, Description: "New session title"},
		},
		Category: "Conversation",
		Handler:  HandleRename,
	})

	r.Register(&Command{
		Name:        "/delete",
		Aliases:     []string{"/del"},
		Description: "Delete a saved session",
		Usage:       "/delete <session_id>",
		Args: []ArgDef{
			{Name: "session_id", Required: true, Type: ArgTypeSession, Description: "ID of the session to delete"},
		},
		Category: "Conversation",
		Handler:  HandleDelete,
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Delete all saved sessions",
		Category:    "Conversation",
		Handler:     HandleClear,
	})

	// Glossary
	r.Register(&Command{
		Name:        "/glossary",
		Aliases:     []string{"/terms"},
		Description: "Show the financial glossary",
		Category:    "Glossary",
		Handler:     HandleGlossary,
	})

	r.Register(&Command{
		Name:        "/define",
		Aliases:     []string{"/d"},
		Description: "Define a financial term",
		Usage:       "/define <term>",
		Args: []ArgDef{
			{Name: "term", Required: true, Type: ArgTypeTerm, Description: "Term to define"},
		},
		Category: "Glossary",
		Handler:  HandleDefine,
	})

	// Settings
	r.Register(&Command{
		Name:        "/config",
		Description: "Show or edit configuration",
		Usage:       "/config [key] [value]",
		Args: []ArgDef{
			{Name: "key", Type: ArgTypeConfig, Description: "Config key to show/set"},
			{Name: "value", Type: ArgTypeString, Description: "New value"},
		},
		Category: "Settings",
		Handler:  HandleConfig,
	})

	r.Register(&Command{
		Name:        "/status",
		Description: "Show session and connection status",
		Category:    "Settings",
		Handler:     HandleStatus,
	})
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context provides access to application state for command handlers.
//
// All fields are optional and may be nil. Handlers check before use and
// fall back to emitting a message for the chat model to resolve.
type Context struct {
	// Config provides access to application configuration
	Config *config.Config

	// Store handles chat session persistence
	Store *history.Store

	// Mentor is the client for the FinIQ mentor service
	Mentor *mentor.Client

	// Session manages idle timeout and autosave state
	Session *session.Manager

	// Index provides full-text search over past sessions
	Index *index.HistoryIndex

	// Glossary provides term definitions
	Glossary *jargon.Glossary
}

// NewContext creates a new command context with the given dependencies.
// All parameters can be nil.
func NewContext(cfg *config.Config, store *history.Store, client *mentor.Client, sess *session.Manager) *Context {
	return &Context{
		Config:  cfg,
		Store:   store,
		Mentor:  client,
		Session: sess,
	}
}

// WithIndex attaches a history index to the context.
func (c *Context) WithIndex(idx *index.HistoryIndex) *Context {
	c.Index = idx
	return c
}

// WithGlossary attaches a glossary to the context.
func (c *Context) WithGlossary(g *jargon.Glossary) *Context {
	c.Glossary = g
	return c
}

// RecordActivity records user activity in the session manager if available.
func (c *Context) RecordActivity() {
	if c.Session != nil {
		c.Session.RecordActivity()
	}
}

// MarkDirty marks the session as having unsaved changes.
func (c *Context) MarkDirty() {
	if c.Session != nil {
		c.Session.MarkDirty()
	}
}
