// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the finiq TUI.
package components

import (
	"strings"

	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
)

// =============================================================================
// ERROR BOX COMPONENT
// =============================================================================

// ErrorBox renders a fatal or recoverable error with an optional
// actionable tip.
type ErrorBox struct {
	Title   string
	Message string
	Tip     string
	Width   int
	theme   *styles.Theme
}

// NewErrorBox creates an error box.
func NewErrorBox(title, message string, theme *styles.Theme) *ErrorBox {
	return &ErrorBox{
		Title:   title,
		Message: message,
		Width:   60,
		theme:   theme,
	}
}

// SetTip sets the hint line shown under the message.
func (e *ErrorBox) SetTip(tip string) {
	e.Tip = tip
}

// SetWidth updates the box width.
func (e *ErrorBox) SetWidth(width int) {
	e.Width = width
}

// View renders the error box.
func (e *ErrorBox) View() string {
	innerWidth := e.Width - 8
	if innerWidth < 20 {
		innerWidth = 20
	}

	title := e.Title
	if title == "" {
		title = "Error"
	}

	var lines []string
	lines = append(lines, e.theme.ErrorTitle.Render(title))
	lines = append(lines, "")
	lines = append(lines, e.theme.ErrorMessage.Render(wordWrap(e.Message, innerWidth)))
	if e.Tip != "" {
		lines = append(lines, "")
		lines = append(lines, e.theme.ErrorTip.Render(wordWrap("Tip: "+e.Tip, innerWidth)))
	}

	return e.theme.ErrorBox.Width(e.Width).Render(strings.Join(lines, "\n"))
}
