// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and execution for finiq.
//
// This package implements the non-TUI commands of the finiq financial
// mentor client. Running the binary with no command starts the TUI;
// everything else is routed through Parse and the Handle* functions
// in this package.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//
// # Usage
//
// Parse and execute commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    cli.HandleAsk(args)
//	case cli.CmdChat:
//	    cli.HandleChat(args)
//	// ... other commands
//	}
//
// # Commands Overview
//
//   - ask: Single question to the mentor, rendered as markdown
//   - chat: Interactive REPL chat with history and line editing
//   - history: Saved session listing, export and deletion
//   - search: Full-text search over indexed sessions
//   - glossary: Financial term glossary and definitions
//   - profile: Local user profile management
//   - config: Configuration show/get/set
//   - status: System status display
//   - index: Session index maintenance
//
// Output is TTY-aware: markdown rendering and colors are disabled when
// stdout is piped, and NO_COLOR is respected.
package cli
