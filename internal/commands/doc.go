// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat TUI.
//
// Commands start with / and are parsed before input reaches the mentor.
// The package has three parts:
//
//   - Registry: the set of available commands with their arguments
//   - Parser: tokenizes input into command name and arguments
//   - Completer: tab completion for command names and arguments
//
// Handlers do not mutate application state directly. Each handler returns
// a tea.Cmd that emits a message; the chat model applies the change when
// it receives the message.
package commands
