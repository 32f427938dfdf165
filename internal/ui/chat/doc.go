// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the finiq TUI.
//
// The Model is a Bubble Tea model wiring the conversation loop
// together: user input goes through the slash-command parser, plain
// text goes to the mentor client as an async tea.Cmd, and replies come
// back as MentorReplyMsg and are persisted to the session store before
// rendering. Overlays (history picker, glossary browser, help) sit on
// top of the transcript viewport.
package chat
