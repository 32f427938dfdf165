// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the finiq TUI.
//
// The package has two layers:
//
//   - colors.go defines the adaptive color palette. Every color is a
//     lipgloss.AdaptiveColor with a light and dark variant, so the UI
//     follows the terminal background without configuration.
//
//   - theme.go assembles the palette into a Theme: one struct holding a
//     configured lipgloss.Style for every visual element the chat UI
//     renders (header, message bubbles, term highlights, status bar,
//     completion popup, overlays).
//
// Components take a *Theme and never construct colors themselves, so a
// palette change is a one-file edit.
package styles
