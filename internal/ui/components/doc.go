// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the finiq TUI.
//
// Each component is a small, self-contained renderer that takes a
// *styles.Theme and produces a string for bubbletea's View. Components
// hold only display state; application state lives in the chat model.
//
// The set covers the chat surface end to end: Header and StatusBar frame
// the screen, MessageBubble renders the conversation (running mentor
// replies through the jargon highlighter), Spinner shows in-flight
// requests, CompletionPopup renders slash-command completion, and the
// HistoryPanel and GlossaryPanel overlays list saved sessions and
// financial terms.
package components
